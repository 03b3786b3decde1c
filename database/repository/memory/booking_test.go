package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"medconnect/database/repository"
	bookingRepo "medconnect/database/repository/booking"
	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, start string, status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID: id, Kind: models.KindAppointment, ResourceID: "doc-1",
		Date: "2030-01-07", StartTime: start, Status: status,
	}
}

func TestCreateEnforcesHeldSlotUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()

	require.NoError(t, repo.Create(ctx, booking("a", "9:00", models.StatusPending)))
	assert.ErrorIs(t, repo.Create(ctx, booking("b", "9:00", models.StatusPending)), repository.ErrDuplicate)

	// a canceled record does not hold the slot
	require.NoError(t, repo.Create(ctx, booking("c", "9:20", models.StatusCanceled)))
	require.NoError(t, repo.Create(ctx, booking("d", "9:20", models.StatusPending)))
}

func TestConcurrentCreatesOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := booking(string(rune('A'+i)), "10:00", models.StatusPending)
			if repo.Create(ctx, b) == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestUpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	require.NoError(t, repo.Create(ctx, booking("a", "9:00", models.StatusPending)))

	_, err := repo.UpdateStatus(ctx, "a", models.StatusConfirmed, bookingRepo.StatusChange{To: models.StatusCompleted})
	assert.ErrorIs(t, err, repository.ErrStale)

	got, err := repo.UpdateStatus(ctx, "a", models.StatusPending, bookingRepo.StatusChange{To: models.StatusCanceled})
	require.NoError(t, err)
	assert.False(t, got.HoldsSlot)

	_, err = repo.FindSlotHolder(ctx, "doc-1", "2030-01-07", "9:00")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.UpdateStatus(ctx, "missing", models.StatusPending, bookingRepo.StatusChange{To: models.StatusConfirmed})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRescheduleMovesHeldSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	require.NoError(t, repo.Create(ctx, booking("a", "9:00", models.StatusConfirmed)))
	require.NoError(t, repo.Create(ctx, booking("b", "9:40", models.StatusPending)))

	_, err := repo.Reschedule(ctx, "a", models.StatusConfirmed, bookingRepo.SlotMove{
		Date: "2030-01-07", StartTime: "9:40", EndTime: "10:00", Status: models.StatusRescheduled,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	unchanged, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "9:00", unchanged.StartTime)
	assert.Equal(t, models.StatusConfirmed, unchanged.Status)

	moved, err := repo.Reschedule(ctx, "a", models.StatusConfirmed, bookingRepo.SlotMove{
		Date: "2030-01-07", StartTime: "9:20", EndTime: "9:40", Status: models.StatusRescheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, "9:20", moved.StartTime)
	require.NotNil(t, moved.RescheduledFrom)
	assert.Equal(t, "9:00", moved.RescheduledFrom.StartTime)

	held, err := repo.FindHeld(ctx, "doc-1", "2030-01-07")
	require.NoError(t, err)
	var starts []string
	for _, b := range held {
		starts = append(starts, b.StartTime)
	}
	assert.Equal(t, []string{"9:20", "9:40"}, starts)
}
