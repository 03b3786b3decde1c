package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medconnect/database/repository"
	"medconnect/models"
	"medconnect/services/slots"
	"medconnect/utils"

	"go.uber.org/zap"
)

// normalizeDate accepts "YYYY-MM-DD" or RFC3339 and returns the UTC calendar day key.
func normalizeDate(raw string) (string, time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", time.Time{}, &ValidationError{Field: "date", Message: "is required"}
	}
	if day, err := time.Parse(utils.DateLayout, raw); err == nil {
		return day.Format(utils.DateLayout), day, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not a valid date", raw)}
	}
	u := ts.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.Format(utils.DateLayout), day, nil
}

// bookableDate normalizes raw and rejects days before today in the clinic's timezone.
func (s *DefaultBookingService) bookableDate(raw string) (string, time.Time, error) {
	key, day, err := normalizeDate(raw)
	if err != nil {
		return "", time.Time{}, err
	}
	if key < s.now().In(s.location()).Format(utils.DateLayout) {
		return "", time.Time{}, &ValidationError{Field: "date", Message: "cannot book a date in the past"}
	}
	return key, day, nil
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// startsAt is the instant a booking begins, with the slot read as clinic-local time.
func (s *DefaultBookingService) startsAt(b *models.Booking) (time.Time, error) {
	day, err := time.Parse(utils.DateLayout, b.Date)
	if err != nil {
		return time.Time{}, err
	}
	mins, err := slots.Parse(b.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, s.location()), nil
}

// resolveSlot checks that start is a canonical slot for kind on day, honoring the doctor's
// weekly windows, and returns the normalized start and computed end.
func (s *DefaultBookingService) resolveSlot(kind models.BookingKind, doctor *models.Doctor, day time.Time, start string) (string, string, error) {
	cfg := s.Slots.For(kind)
	norm, err := slots.Normalize(start)
	if err != nil {
		return "", "", &InvalidSlotError{StartTime: start, Reason: "not a time of day"}
	}
	seq, err := s.sequence(kind, doctor, day)
	if err != nil {
		return "", "", err
	}
	end, err := slots.EndTime(seq, norm, cfg.SlotMinutes)
	if err != nil {
		return "", "", &InvalidSlotError{StartTime: start, Reason: "outside the bookable schedule"}
	}
	return norm, end, nil
}

// sequence is the canonical slot list for kind, narrowed to the doctor's windows for day when any are configured.
func (s *DefaultBookingService) sequence(kind models.BookingKind, doctor *models.Doctor, day time.Time) ([]string, error) {
	cfg := s.Slots.For(kind)
	seq, err := slots.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("slot configuration: %w", err)
	}
	if doctor == nil || len(doctor.Availability) == 0 {
		return seq, nil
	}
	windows := doctor.WindowsFor(day.Weekday())
	return slots.Filter(seq, func(start string) bool {
		for _, w := range windows {
			if slots.Within(start, w.StartTime, w.EndTime, cfg.SlotMinutes) {
				return true
			}
		}
		return false
	}), nil
}

// loadBooking fetches a booking, translating absence into *NotFoundError.
func (s *DefaultBookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "booking", ID: id}
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

// ownsAppointment reports whether actor is the doctor an appointment is booked with.
func (s *DefaultBookingService) ownsAppointment(ctx context.Context, actor models.Actor, b *models.Booking) bool {
	if actor.Role != models.RoleDoctor || b.Kind != models.KindAppointment {
		return false
	}
	doc, err := s.Lookup.GetDoctor(ctx, b.ResourceID)
	if err != nil {
		return false
	}
	return doc.UserID == actor.UserID
}

// publish hands the event to the sink without waiting on it.
func (s *DefaultBookingService) publish(evType models.EventType, b models.Booking, prev models.BookingStatus, actor string) {
	if s.Events == nil {
		return
	}
	ev := models.LifecycleEvent{
		Type:           evType,
		Booking:        b,
		PreviousStatus: prev,
		Actor:          actor,
		OccurredAt:     s.now().UTC(),
	}
	go s.Events.Publish(context.Background(), ev)
}

func (s *DefaultBookingService) scheduleReminder(b models.Booking) {
	if s.Reminders == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Reminders.ScheduleReminder(ctx, b); err != nil {
			s.Logger.Warn("Failed to schedule appointment reminder",
				zap.String("bookingId", b.ID),
				zap.Error(err),
			)
		}
	}()
}
