package bookingRepo

import (
	"context"

	"medconnect/models"
)

// StatusChange is applied by UpdateStatus together with the new status.
type StatusChange struct {
	To              models.BookingStatus
	RejectionReason *string
}

// SlotMove is applied by Reschedule.
type SlotMove struct {
	Date      string
	StartTime string
	EndTime   string
	Status    models.BookingStatus
}

// BookingRepository is the only writer of the bookings collection.
// Writes that would give a (resource, date, startTime) a second slot-holding booking fail with repository.ErrDuplicate.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindHeld returns the slot-holding bookings of a resource on a date.
	FindHeld(ctx context.Context, resourceID, date string) ([]models.Booking, error)
	// FindSlotHolder returns the booking currently holding the slot, or repository.ErrNotFound.
	FindSlotHolder(ctx context.Context, resourceID, date, startTime string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)

	// The following are compare-and-set on the current status; a mismatch yields repository.ErrStale.
	UpdateStatus(ctx context.Context, id string, from models.BookingStatus, change StatusChange) (*models.Booking, error)
	Reschedule(ctx context.Context, id string, from models.BookingStatus, move SlotMove) (*models.Booking, error)
	UpdatePayment(ctx context.Context, id string, from models.BookingStatus, payment models.PaymentStatus, to models.BookingStatus) (*models.Booking, error)

	SetPaymentIntent(ctx context.Context, id, intentID string) error
	EnsureIndexes(ctx context.Context) error
}
