package booking

import (
	"context"
	"fmt"

	"medconnect/models"
)

// AvailableSlots returns the canonical slots for the resource's day minus the ones already held.
func (s *DefaultBookingService) AvailableSlots(ctx context.Context, kind models.BookingKind, resourceID, date string) ([]string, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown booking kind %q", kind)}
	}
	if resourceID == "" {
		return nil, &ValidationError{Field: "resourceId", Message: "is required"}
	}
	key, day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	var doctor *models.Doctor
	switch kind {
	case models.KindAppointment:
		if doctor, err = s.Lookup.GetDoctor(ctx, resourceID); err != nil {
			return nil, err
		}
	case models.KindTest:
		if _, err = s.Lookup.GetMedicalTest(ctx, resourceID); err != nil {
			return nil, err
		}
	}

	seq, err := s.sequence(kind, doctor, day)
	if err != nil {
		return nil, err
	}

	held, err := s.Repo.FindHeld(ctx, resourceID, key)
	if err != nil {
		return nil, fmt.Errorf("load held slots: %w", err)
	}
	taken := make(map[string]struct{}, len(held))
	for _, b := range held {
		taken[b.StartTime] = struct{}{}
	}

	available := make([]string, 0, len(seq))
	for _, slot := range seq {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available, nil
}
