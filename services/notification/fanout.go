// Package notification fans booking lifecycle events out to the inbox, email, push,
// connected clients and the message broker. Every channel is best-effort.
package notification

import (
	"context"
	"time"

	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/events"
	"medconnect/services/realtime"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// DefaultNotificationService implements booking.EventSink. Nil channels are skipped.
// When Presence is set, users with a live socket get the realtime frame instead of a push.
type DefaultNotificationService struct {
	Recipients Recipients
	Inbox      Inbox
	Email      EmailSender
	Push       PushSender
	Realtime   realtime.Emitter
	Presence   Presence
	Broker     events.Publisher
	Timeout    time.Duration
	Logger     *zap.Logger
}

var _ booking.EventSink = (*DefaultNotificationService)(nil)

func NewDefaultNotificationService(recipients Recipients, inbox Inbox, logger *zap.Logger) *DefaultNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		Recipients: recipients,
		Inbox:      inbox,
		Timeout:    defaultTimeout,
		Logger:     logger,
	}
}

// Publish delivers ev on every configured channel. Failures are logged and dropped.
func (s *DefaultNotificationService) Publish(ctx context.Context, ev models.LifecycleEvent) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b := ev.Booking
	log := s.Logger.With(zap.String("event", string(ev.Type)), zap.String("bookingId", b.ID))

	consumer := s.user(ctx, b.ConsumerID, log)
	resourceName, doctor := s.resource(ctx, b, log)

	s.deliver(ctx, b.ConsumerID, consumer, consumerContent(ev, resourceName), b.ID, !s.online(ctx, b.ConsumerID), log)
	s.emit(ctx, b.ConsumerID, ev, log)

	if doctor != nil && doctor.UserID != "" && doctor.UserID != ev.Actor {
		patientName := ""
		if consumer != nil {
			patientName = consumer.Name
		}
		if c, ok := doctorContent(ev, patientName); ok {
			s.deliver(ctx, doctor.UserID, s.user(ctx, doctor.UserID, log), c, b.ID, !s.online(ctx, doctor.UserID), log)
		}
		s.emit(ctx, doctor.UserID, ev, log)
	}

	if s.Broker != nil {
		if err := s.Broker.Publish(ctx, string(ev.Type), ev); err != nil {
			log.Warn("Broker publish failed", zap.Error(err))
		}
	}
}

// Remind sends the pre-visit reminder to the booking's consumer.
func (s *DefaultNotificationService) Remind(ctx context.Context, b models.Booking) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.Logger.With(zap.String("event", TypeBookingReminder), zap.String("bookingId", b.ID))
	consumer := s.user(ctx, b.ConsumerID, log)
	resourceName, _ := s.resource(ctx, b, log)
	s.deliver(ctx, b.ConsumerID, consumer, ReminderContent(b, resourceName), b.ID, true, log)
}

func (s *DefaultNotificationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *DefaultNotificationService) user(ctx context.Context, id string, log *zap.Logger) *models.User {
	if s.Recipients == nil || id == "" {
		return nil
	}
	u, err := s.Recipients.GetUser(ctx, id)
	if err != nil {
		log.Warn("Recipient lookup failed", zap.String("userId", id), zap.Error(err))
		return nil
	}
	return u
}

// resource returns a display name for the booked resource and, for appointments, the doctor.
func (s *DefaultNotificationService) resource(ctx context.Context, b models.Booking, log *zap.Logger) (string, *models.Doctor) {
	if s.Recipients == nil {
		return "", nil
	}
	if b.Kind == models.KindTest {
		t, err := s.Recipients.GetMedicalTest(ctx, b.ResourceID)
		if err != nil {
			log.Warn("Medical test lookup failed", zap.String("testId", b.ResourceID), zap.Error(err))
			return "", nil
		}
		return t.Name, nil
	}
	d, err := s.Recipients.GetDoctor(ctx, b.ResourceID)
	if err != nil {
		log.Warn("Doctor lookup failed", zap.String("doctorId", b.ResourceID), zap.Error(err))
		return "", nil
	}
	return d.Name, d
}

// online is true only when the user will also receive the realtime frame.
func (s *DefaultNotificationService) online(ctx context.Context, userID string) bool {
	return s.Realtime != nil && s.Presence != nil && s.Presence.Online(ctx, userID)
}

func (s *DefaultNotificationService) deliver(ctx context.Context, userID string, u *models.User, c Content, relatedID string, push bool, log *zap.Logger) {
	if s.Inbox != nil {
		if err := s.Inbox.Notify(ctx, userID, c.Type, c.Title, c.Message, relatedID); err != nil {
			log.Warn("Inbox write failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	if u == nil {
		return
	}
	if s.Email != nil && u.Email != "" {
		if err := s.Email.Send(ctx, u.Email, c.Title, renderEmail(u.Name, c)); err != nil {
			log.Warn("Email failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	if push && s.Push != nil && u.FCMToken != "" {
		data := map[string]string{"type": c.Type, "bookingId": relatedID, "role": string(u.Role)}
		if err := s.Push.Send(ctx, u.FCMToken, c.Title, c.Message, data); err != nil {
			log.Warn("Push failed", zap.String("userId", userID), zap.Error(err))
		}
	}
}

func (s *DefaultNotificationService) emit(ctx context.Context, room string, ev models.LifecycleEvent, log *zap.Logger) {
	if s.Realtime == nil {
		return
	}
	if err := s.Realtime.Emit(ctx, room, string(ev.Type), ev.Booking); err != nil {
		log.Warn("Realtime emit failed", zap.String("room", room), zap.Error(err))
	}
}
