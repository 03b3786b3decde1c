package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medconnect/database/repository"
	bookingRepo "medconnect/database/repository/booking"
	"medconnect/models"

	"go.uber.org/zap"
)

// DefaultRejectionReason is recorded when a booking is canceled without a reason.
const DefaultRejectionReason = "No reason provided"

// UpdateStatus moves a booking along its kind's transition table.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actor models.Actor, bookingID string, target models.BookingStatus, rejectionReason string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !s.ownsAppointment(ctx, actor, b) {
		return nil, &ForbiddenError{Action: "change the status of this booking"}
	}
	if !target.ValidFor(b.Kind) || !models.CanTransition(b.Kind, b.Status, target) {
		return nil, transitionError(b.Kind, b.Status, target)
	}

	change := bookingRepo.StatusChange{To: target}
	if target.IsCancel() {
		reason := strings.TrimSpace(rejectionReason)
		if reason == "" {
			reason = DefaultRejectionReason
		}
		change.RejectionReason = &reason
	}

	updated, err := s.Repo.UpdateStatus(ctx, b.ID, b.Status, change)
	if err != nil {
		return nil, s.mapWriteError(err, b, target)
	}

	s.Logger.Info("Booking status changed",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("actor", actor.UserID),
	)

	s.publish(models.EventBookingStatus, *updated, b.Status, actor.UserID)
	if updated.Status == models.StatusConfirmed {
		s.scheduleReminder(*updated)
	}
	return updated, nil
}

// Reschedule moves a claiming booking to another slot in one write. If the new slot is taken
// the booking is left untouched.
func (s *DefaultBookingService) Reschedule(ctx context.Context, actor models.Actor, bookingID, newDate, newStartTime string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != b.ConsumerID && !s.ownsAppointment(ctx, actor, b) {
		return nil, &ForbiddenError{Action: "reschedule this booking"}
	}
	if !b.Status.IsClaiming() {
		return nil, transitionError(b.Kind, b.Status, models.StatusRescheduled)
	}

	now := s.now()
	current, err := s.startsAt(b)
	if err != nil {
		return nil, fmt.Errorf("stored booking %s has a bad slot: %w", b.ID, err)
	}
	if !current.After(now) {
		return nil, &InvalidStateError{Message: "only upcoming bookings can be rescheduled"}
	}

	if strings.TrimSpace(newStartTime) == "" {
		return nil, &ValidationError{Field: "newStartTime", Message: "is required"}
	}
	dateKey, day, err := s.bookableDate(newDate)
	if err != nil {
		return nil, err
	}
	var doctor *models.Doctor
	if b.Kind == models.KindAppointment {
		if doctor, err = s.Lookup.GetDoctor(ctx, b.ResourceID); err != nil {
			return nil, err
		}
	}
	start, end, err := s.resolveSlot(b.Kind, doctor, day, newStartTime)
	if err != nil {
		return nil, err
	}
	if dateKey == b.Date && start == b.StartTime {
		return nil, &ValidationError{Field: "newStartTime", Message: "booking already holds this slot"}
	}
	next, err := s.startsAt(&models.Booking{Date: dateKey, StartTime: start})
	if err != nil {
		return nil, err
	}
	if !next.After(now) {
		return nil, &ValidationError{Field: "newStartTime", Message: "cannot move a booking into the past"}
	}

	status := b.Status
	if b.Kind == models.KindAppointment {
		status = models.StatusRescheduled
	}
	updated, err := s.Repo.Reschedule(ctx, b.ID, b.Status, bookingRepo.SlotMove{
		Date:      dateKey,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &SlotConflictError{ResourceID: b.ResourceID, Date: dateKey, StartTime: start}
		}
		return nil, s.mapWriteError(err, b, status)
	}

	s.Logger.Info("Booking rescheduled",
		zap.String("bookingId", updated.ID),
		zap.String("fromDate", b.Date),
		zap.String("fromStart", b.StartTime),
		zap.String("toDate", updated.Date),
		zap.String("toStart", updated.StartTime),
	)
	s.publish(models.EventBookingRescheduled, *updated, b.Status, actor.UserID)
	return updated, nil
}

// UpdatePaymentStatus records settlement. A pending test booking that is paid becomes booked.
func (s *DefaultBookingService) UpdatePaymentStatus(ctx context.Context, actor models.Actor, bookingID string, status models.PaymentStatus) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, &ForbiddenError{Action: "update payment status"}
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "paymentStatus", Message: fmt.Sprintf("%q is not a payment status", status)}
	}
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	to := b.Status
	if b.Kind == models.KindTest && b.Status == models.StatusPending && status == models.PaymentPaid {
		to = models.StatusBooked
	}
	updated, err := s.Repo.UpdatePayment(ctx, b.ID, b.Status, status, to)
	if err != nil {
		return nil, s.mapWriteError(err, b, to)
	}

	s.Logger.Info("Booking payment updated",
		zap.String("bookingId", updated.ID),
		zap.String("paymentStatus", string(status)),
		zap.String("status", string(updated.Status)),
	)
	s.publish(models.EventBookingPayment, *updated, b.Status, actor.UserID)
	return updated, nil
}

// GetBooking returns a booking visible to the actor.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.UserID == b.ConsumerID || s.ownsAppointment(ctx, actor, b) {
		return b, nil
	}
	return nil, &ForbiddenError{Action: "view this booking"}
}

// ListBookings scopes the filter to the actor: patients see their own bookings, doctors their
// appointments, admins everything.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) ([]models.Booking, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown booking kind %q", filter.Kind)}
	}
	if filter.Date != "" {
		key, _, err := normalizeDate(filter.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = key
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleDoctor:
		doc, err := s.Lookup.GetDoctorByUserID(ctx, actor.UserID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				return nil, &ForbiddenError{Action: "list bookings without a doctor profile"}
			}
			return nil, err
		}
		filter.Kind = models.KindAppointment
		filter.ResourceID = doc.ID
	default:
		filter.ConsumerID = actor.UserID
	}

	out, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// mapWriteError turns repository sentinels from a compare-and-set write into typed errors.
func (s *DefaultBookingService) mapWriteError(err error, b *models.Booking, target models.BookingStatus) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Entity: "booking", ID: b.ID}
	case errors.Is(err, repository.ErrStale):
		return transitionError(b.Kind, b.Status, target)
	case errors.Is(err, repository.ErrDuplicate):
		return &SlotConflictError{ResourceID: b.ResourceID, Date: b.Date, StartTime: b.StartTime}
	}
	return fmt.Errorf("update booking %s: %w", b.ID, err)
}
