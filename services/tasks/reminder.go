// Package tasks defines the asynq jobs the booking service enqueues.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/slots"
	"medconnect/utils"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// ReminderPayload identifies the booking and the slot the reminder was scheduled for.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("reminder:%s:%s:%s", payload.BookingID, payload.Date, payload.StartTime)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParseReminderPayload decodes a reminder task body.
func ParseReminderPayload(task *asynq.Task) (ReminderPayload, error) {
	var p ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if p.BookingID == "" {
		return p, errors.New("invalid reminder payload: missing bookingId")
	}
	return p, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler enqueues reminders LeadTime before the visit starts.
type AsynqReminderScheduler struct {
	client   enqueuer
	LeadTime time.Duration
	Location *time.Location
	Now      func() time.Time
}

var _ booking.ReminderScheduler = (*AsynqReminderScheduler)(nil)

func NewAsynqReminderScheduler(client *asynq.Client, lead time.Duration, loc *time.Location) *AsynqReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &AsynqReminderScheduler{client: client, LeadTime: lead, Location: loc, Now: time.Now}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	start, err := s.startsAt(b)
	if err != nil {
		return err
	}
	now := s.Now()
	if !start.After(now) {
		return nil
	}
	fireAt := start.Add(-s.LeadTime)
	if fireAt.Before(now) {
		fireAt = now
	}

	task, opts, err := NewReminderTask(ReminderPayload{BookingID: b.ID, Date: b.Date, StartTime: b.StartTime}, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reminder for %s: %w", b.ID, err)
	}
	return nil
}

func (s *AsynqReminderScheduler) startsAt(b models.Booking) (time.Time, error) {
	day, err := time.ParseInLocation(utils.DateLayout, b.Date, s.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %s has invalid date %q: %w", b.ID, b.Date, err)
	}
	minutes, err := slots.Parse(b.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking %s has invalid start %q: %w", b.ID, b.StartTime, err)
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
