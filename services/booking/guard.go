package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medconnect/database/repository"
	"medconnect/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// draft is the kind-independent shape of a create request.
type draft struct {
	kind          models.BookingKind
	consumerID    string
	resourceID    string
	resourceField string
	hospitalID    string
	date          string
	startTime     string
	reason        string
	paymentMethod string
}

func (s *DefaultBookingService) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.BookingResult, error) {
	return s.create(ctx, draft{
		kind:          models.KindAppointment,
		consumerID:    req.ConsumerID,
		resourceID:    req.DoctorID,
		resourceField: "doctorId",
		hospitalID:    req.HospitalID,
		date:          req.Date,
		startTime:     req.StartTime,
		reason:        req.Reason,
		paymentMethod: req.PaymentMethod,
	})
}

func (s *DefaultBookingService) CreateTestBooking(ctx context.Context, req models.TestBookingRequest) (*models.BookingResult, error) {
	return s.create(ctx, draft{
		kind:          models.KindTest,
		consumerID:    req.ConsumerID,
		resourceID:    req.TestID,
		resourceField: "testId",
		hospitalID:    req.HospitalID,
		date:          req.Date,
		startTime:     req.StartTime,
		paymentMethod: req.PaymentMethod,
	})
}

func (d draft) missingField() string {
	required := []struct{ name, value string }{
		{"consumerId", d.consumerID},
		{d.resourceField, d.resourceID},
		{"hospitalId", d.hospitalID},
		{"date", d.date},
		{"startTime", d.startTime},
		{"paymentMethod", d.paymentMethod},
	}
	if d.kind == models.KindAppointment {
		required = append(required, struct{ name, value string }{"reason", d.reason})
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// create runs the guard's checks in order and inserts the booking. The slot index decides races.
func (s *DefaultBookingService) create(ctx context.Context, d draft) (*models.BookingResult, error) {
	if field := d.missingField(); field != "" {
		return nil, &ValidationError{Field: field, Message: "is required"}
	}
	dateKey, day, err := s.bookableDate(d.date)
	if err != nil {
		return nil, err
	}
	method := models.PaymentMethod(strings.ToLower(strings.TrimSpace(d.paymentMethod)))
	if !method.Valid() {
		return nil, &ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("%q is not one of cash, online", d.paymentMethod)}
	}

	if _, err := s.Lookup.GetUser(ctx, d.consumerID); err != nil {
		return nil, err
	}
	var (
		doctor *models.Doctor
		amount float64
		owner  string
	)
	switch d.kind {
	case models.KindAppointment:
		if doctor, err = s.Lookup.GetDoctor(ctx, d.resourceID); err != nil {
			return nil, err
		}
		amount, owner = doctor.Fee, doctor.HospitalID
	case models.KindTest:
		test, err := s.Lookup.GetMedicalTest(ctx, d.resourceID)
		if err != nil {
			return nil, err
		}
		amount, owner = test.Price, test.HospitalID
	}
	if _, err := s.Lookup.GetHospital(ctx, d.hospitalID); err != nil {
		return nil, err
	}
	if owner != "" && owner != d.hospitalID {
		return nil, &ValidationError{Field: "hospitalId", Message: fmt.Sprintf("%s does not belong to this hospital", d.resourceField)}
	}

	start, end, err := s.resolveSlot(d.kind, doctor, day, d.startTime)
	if err != nil {
		return nil, err
	}
	begins, err := s.startsAt(&models.Booking{Date: dateKey, StartTime: start})
	if err != nil {
		return nil, err
	}
	if !begins.After(s.now()) {
		return nil, &ValidationError{Field: "startTime", Message: "cannot book a slot that has already started"}
	}
	conflict := &SlotConflictError{ResourceID: d.resourceID, Date: dateKey, StartTime: start}

	if _, err := s.Repo.FindSlotHolder(ctx, d.resourceID, dateKey, start); err == nil {
		return nil, conflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check slot: %w", err)
	}

	now := s.now().UTC()
	status := models.InitialStatus(d.kind, method)
	b := &models.Booking{
		ID:            uuid.New().String(),
		Kind:          d.kind,
		ResourceID:    d.resourceID,
		ConsumerID:    d.consumerID,
		HospitalID:    d.hospitalID,
		Date:          dateKey,
		StartTime:     start,
		EndTime:       end,
		Status:        status,
		HoldsSlot:     status.HoldsSlot(),
		Reason:        strings.TrimSpace(d.reason),
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.Logger.Info("Booking created",
		zap.String("bookingId", b.ID),
		zap.String("kind", string(b.Kind)),
		zap.String("resourceId", b.ResourceID),
		zap.String("date", b.Date),
		zap.String("startTime", b.StartTime),
	)

	result := &models.BookingResult{Booking: b, PaymentRequired: method == models.PaymentOnline}
	if result.PaymentRequired {
		result.ClientSecret = s.createIntent(ctx, b, amount)
	}

	s.publish(models.EventBookingCreated, *b, "", d.consumerID)
	return result, nil
}

// createIntent asks the gateway for a payment intent. Failures leave the booking pending payment.
func (s *DefaultBookingService) createIntent(ctx context.Context, b *models.Booking, amount float64) string {
	if s.Payments == nil || amount <= 0 {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	inv, err := s.Payments.CreateIntent(ctx, models.PaymentRequest{
		BookingID:   b.ID,
		UserID:      b.ConsumerID,
		Amount:      amount,
		Currency:    s.Currency,
		Idempotency: "booking-" + b.ID,
		Metadata:    map[string]string{"bookingId": b.ID, "kind": string(b.Kind)},
		Description: fmt.Sprintf("MedConnect %s on %s at %s", b.Kind, b.Date, b.StartTime),
	})
	if err != nil {
		s.Logger.Warn("Payment intent creation failed", zap.String("bookingId", b.ID), zap.Error(err))
		return ""
	}
	if err := s.Repo.SetPaymentIntent(ctx, b.ID, inv.PaymentID); err != nil {
		s.Logger.Warn("Failed to store payment intent", zap.String("bookingId", b.ID), zap.Error(err))
	} else {
		b.PaymentIntentID = inv.PaymentID
	}
	return inv.ClientSecret
}
