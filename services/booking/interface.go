package booking

import (
	"context"
	"time"

	bookingRepo "medconnect/database/repository/booking"
	"medconnect/models"
	"medconnect/services/slots"

	"go.uber.org/zap"
)

// BookingService is the booking core: availability, the conflict guard and the lifecycle.
type BookingService interface {
	AvailableSlots(ctx context.Context, kind models.BookingKind, resourceID, date string) ([]string, error)

	CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.BookingResult, error)
	CreateTestBooking(ctx context.Context, req models.TestBookingRequest) (*models.BookingResult, error)

	UpdateStatus(ctx context.Context, actor models.Actor, bookingID string, target models.BookingStatus, rejectionReason string) (*models.Booking, error)
	Reschedule(ctx context.Context, actor models.Actor, bookingID, newDate, newStartTime string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, actor models.Actor, bookingID string, status models.PaymentStatus) (*models.Booking, error)

	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) ([]models.Booking, error)
}

// EntityLookup resolves the records a booking refers to. Absence is reported as *NotFoundError.
type EntityLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	GetHospital(ctx context.Context, id string) (*models.Hospital, error)
	GetMedicalTest(ctx context.Context, id string) (*models.MedicalTest, error)
}

// EventSink receives lifecycle events after the write has committed. It must not block the caller
// for long and has no way to fail the operation.
type EventSink interface {
	Publish(ctx context.Context, ev models.LifecycleEvent)
}

// PaymentHandler creates a payment intent for online payment.
type PaymentHandler interface {
	CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
}

// ReminderScheduler enqueues the pre-appointment reminder for a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b models.Booking) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Lookup    EntityLookup
	Events    EventSink
	Payments  PaymentHandler    // optional
	Reminders ReminderScheduler // optional
	Slots     slots.Configs
	Currency  string
	Location  *time.Location
	Now       func() time.Time
	Logger    *zap.Logger
}

// NewDefaultBookingService wires a service with the given collaborators and sane defaults
// for the clock, location and logger.
func NewDefaultBookingService(repo bookingRepo.BookingRepository, lookup EntityLookup, events EventSink, cfg slots.Configs, logger *zap.Logger) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:     repo,
		Lookup:   lookup,
		Events:   events,
		Slots:    cfg,
		Currency: "usd",
		Location: time.UTC,
		Now:      time.Now,
		Logger:   logger,
	}
}

var _ BookingService = (*DefaultBookingService)(nil)
