// Package memory provides in-process implementations of the repository contracts.
// They honor the same uniqueness rules as the MongoDB indexes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"medconnect/database/repository"
	bookingRepo "medconnect/database/repository/booking"
	"medconnect/models"
)

type slotKey struct{ resource, date, start string }

// BookingRepo is a mutex-guarded BookingRepository.
type BookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	held     map[slotKey]string
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{
		bookings: make(map[string]models.Booking),
		held:     make(map[slotKey]string),
	}
}

func keyOf(b models.Booking) slotKey {
	return slotKey{resource: b.ResourceID, date: b.Date, start: b.StartTime}
}

func (r *BookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; ok {
		return fmt.Errorf("failed to create booking: %w", repository.ErrDuplicate)
	}
	b.HoldsSlot = b.Status.HoldsSlot()
	if b.HoldsSlot {
		k := keyOf(*b)
		if _, taken := r.held[k]; taken {
			return fmt.Errorf("failed to create booking: %w", repository.ErrDuplicate)
		}
		r.held[k] = b.ID
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) FindHeld(_ context.Context, resourceID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Date == date && b.HoldsSlot {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *BookingRepo) FindSlotHolder(_ context.Context, resourceID, date, startTime string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.held[slotKey{resourceID, date, startTime}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b := r.bookings[id]
	return &b, nil
}

func (r *BookingRepo) List(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if f.Kind != "" && b.Kind != f.Kind ||
			f.ConsumerID != "" && b.ConsumerID != f.ConsumerID ||
			f.ResourceID != "" && b.ResourceID != f.ResourceID ||
			f.HospitalID != "" && b.HospitalID != f.HospitalID ||
			f.Status != "" && b.Status != f.Status ||
			f.Date != "" && b.Date != f.Date {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id string, from models.BookingStatus, change bookingRepo.StatusChange) (*models.Booking, error) {
	return r.apply(id, from, func(b *models.Booking) {
		b.Status = change.To
		if change.RejectionReason != nil {
			reason := *change.RejectionReason
			b.RejectionReason = &reason
		}
	})
}

func (r *BookingRepo) Reschedule(_ context.Context, id string, from models.BookingStatus, move bookingRepo.SlotMove) (*models.Booking, error) {
	return r.apply(id, from, func(b *models.Booking) {
		b.RescheduledFrom = &models.RescheduledFrom{Date: b.Date, StartTime: b.StartTime}
		b.Date = move.Date
		b.StartTime = move.StartTime
		b.EndTime = move.EndTime
		b.Status = move.Status
	})
}

func (r *BookingRepo) UpdatePayment(_ context.Context, id string, from models.BookingStatus, payment models.PaymentStatus, to models.BookingStatus) (*models.Booking, error) {
	return r.apply(id, from, func(b *models.Booking) {
		b.PaymentStatus = payment
		b.Status = to
	})
}

func (r *BookingRepo) SetPaymentIntent(_ context.Context, id, intentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.PaymentIntentID = intentID
	r.bookings[id] = b
	return nil
}

func (r *BookingRepo) EnsureIndexes(context.Context) error { return nil }

// apply mutates a copy and commits it only if the slot index still holds.
func (r *BookingRepo) apply(id string, from models.BookingStatus, mutate func(*models.Booking)) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if current.Status != from {
		return nil, repository.ErrStale
	}

	next := current
	mutate(&next)
	next.HoldsSlot = next.Status.HoldsSlot()
	next.UpdatedAt = time.Now().UTC()

	oldKey, newKey := keyOf(current), keyOf(next)
	if next.HoldsSlot {
		if holder, taken := r.held[newKey]; taken && holder != id {
			return nil, fmt.Errorf("failed to update booking %s: %w", id, repository.ErrDuplicate)
		}
	}
	if current.HoldsSlot && r.held[oldKey] == id {
		delete(r.held, oldKey)
	}
	if next.HoldsSlot {
		r.held[newKey] = id
	}
	r.bookings[id] = next
	return &next, nil
}
