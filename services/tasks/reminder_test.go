package tasks

import (
	"context"
	"testing"
	"time"

	"medconnect/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (c *recordingClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)
	return &asynq.TaskInfo{}, nil
}

func processAt(t *testing.T, opts []asynq.Option) time.Time {
	for _, o := range opts {
		if o.Type() == asynq.ProcessAtOpt {
			return o.Value().(time.Time)
		}
	}
	t.Fatal("no ProcessAt option")
	return time.Time{}
}

func scheduler(client *recordingClient, now time.Time) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client:   client,
		LeadTime: 24 * time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
}

func TestScheduleReminderFiresLeadTimeBeforeStart(t *testing.T) {
	client := &recordingClient{}
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	b := models.Booking{ID: "bk-1", Date: "2030-01-10", StartTime: "9:20"}

	require.NoError(t, scheduler(client, now).ScheduleReminder(context.Background(), b))
	require.Len(t, client.tasks, 1)
	assert.Equal(t, TypeSendReminder, client.tasks[0].Type())
	assert.Equal(t, time.Date(2030, 1, 9, 9, 20, 0, 0, time.UTC), processAt(t, client.opts[0]))

	p, err := ParseReminderPayload(client.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, ReminderPayload{BookingID: "bk-1", Date: "2030-01-10", StartTime: "9:20"}, p)
}

func TestScheduleReminderInsideLeadTimeFiresNow(t *testing.T) {
	client := &recordingClient{}
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	b := models.Booking{ID: "bk-1", Date: "2030-01-07", StartTime: "14:00"}

	require.NoError(t, scheduler(client, now).ScheduleReminder(context.Background(), b))
	assert.Equal(t, now, processAt(t, client.opts[0]))
}

func TestScheduleReminderSkipsPastVisits(t *testing.T) {
	client := &recordingClient{}
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	b := models.Booking{ID: "bk-1", Date: "2030-01-06", StartTime: "9:00"}

	require.NoError(t, scheduler(client, now).ScheduleReminder(context.Background(), b))
	assert.Empty(t, client.tasks)
}

func TestScheduleReminderDuplicateIsNotAnError(t *testing.T) {
	client := &recordingClient{err: asynq.ErrTaskIDConflict}
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	b := models.Booking{ID: "bk-1", Date: "2030-01-10", StartTime: "9:00"}

	assert.NoError(t, scheduler(client, now).ScheduleReminder(context.Background(), b))
}

func TestScheduleReminderRejectsBadDate(t *testing.T) {
	client := &recordingClient{}
	b := models.Booking{ID: "bk-1", Date: "10/01/2030", StartTime: "9:00"}
	assert.Error(t, scheduler(client, time.Now()).ScheduleReminder(context.Background(), b))
}

func TestParseReminderPayloadRejectsGarbage(t *testing.T) {
	_, err := ParseReminderPayload(asynq.NewTask(TypeSendReminder, []byte("nope")))
	assert.Error(t, err)
	_, err = ParseReminderPayload(asynq.NewTask(TypeSendReminder, []byte(`{}`)))
	assert.Error(t, err)
}
