package cmd

import (
	"context"
	"fmt"
	"time"

	"medconnect/config"
	"medconnect/database"
	bookingRepo "medconnect/database/repository/booking"
	doctorRepo "medconnect/database/repository/doctor"
	hospitalRepo "medconnect/database/repository/hospital"
	medicalTestRepo "medconnect/database/repository/medicaltest"
	notificationRepo "medconnect/database/repository/notification"
	userRepo "medconnect/database/repository/user"
	"medconnect/services/directory"
	"medconnect/services/events"
	"medconnect/services/notification"
	"medconnect/services/realtime"
	"medconnect/utils"

	"go.uber.org/zap"
)

const directoryCacheTTL = 5 * time.Minute

// repositories holds every Mongo-backed store.
type repositories struct {
	Bookings      bookingRepo.BookingRepository
	Users         userRepo.UserRepository
	Doctors       doctorRepo.DoctorRepository
	Hospitals     hospitalRepo.HospitalRepository
	Tests         medicalTestRepo.MedicalTestRepository
	Notifications notificationRepo.NotificationRepository
}

func openRepositories(ctx context.Context) (*repositories, error) {
	if err := database.InitDB(ctx); err != nil {
		return nil, err
	}
	db := database.Database()
	return &repositories{
		Bookings:      bookingRepo.NewMongoBookingRepo(db),
		Users:         userRepo.NewMongoUserRepo(db),
		Doctors:       doctorRepo.NewMongoDoctorRepo(db),
		Hospitals:     hospitalRepo.NewMongoHospitalRepo(db),
		Tests:         medicalTestRepo.NewMongoMedicalTestRepo(db),
		Notifications: notificationRepo.NewMongoNotificationRepo(db),
	}, nil
}

func newDirectory(repos *repositories, logger *zap.Logger) directory.DirectoryService {
	dir := &directory.DefaultDirectoryService{
		Users:     repos.Users,
		Doctors:   repos.Doctors,
		Hospitals: repos.Hospitals,
		Tests:     repos.Tests,
		Logger:    logger,
	}
	return directory.NewCachedDirectory(dir, utils.GetCacheClient(), directoryCacheTTL, logger)
}

func newBroker(logger *zap.Logger) events.Publisher {
	cfg := config.AppConfig
	if cfg.AMQPURL == "" {
		return events.LogPublisher{Logger: logger}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, logging events instead", zap.Error(err))
		return events.LogPublisher{Logger: logger}
	}
	logger.Info("Publishing lifecycle events to RabbitMQ", zap.String("exchange", cfg.AMQPExchange))
	return pub
}

// newNotifier builds the fan-out with every channel the configuration enables. hub may be nil.
func newNotifier(ctx context.Context, repos *repositories, dir directory.DirectoryService, hub *realtime.Hub, broker events.Publisher, logger *zap.Logger) *notification.DefaultNotificationService {
	cfg := config.AppConfig
	n := notification.NewDefaultNotificationService(dir, notification.NewRepoInbox(repos.Notifications), logger)
	n.Broker = broker
	if hub != nil {
		n.Realtime = hub
		n.Presence = hub
	}

	if config.SMTPEnabled() {
		n.Email = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		logger.Info("SMTP not configured, email notifications disabled")
	}

	if client, err := utils.FirebaseInit(ctx); err != nil {
		logger.Info("Push notifications disabled", zap.Error(err))
	} else {
		n.Push = notification.NewFCMSender(client)
	}
	return n
}

func ensureIndexes(ctx context.Context, repos *repositories) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"bookings", repos.Bookings.EnsureIndexes},
		{"users", repos.Users.EnsureIndexes},
		{"doctors", repos.Doctors.EnsureIndexes},
		{"hospitals", repos.Hospitals.EnsureIndexes},
		{"medical_tests", repos.Tests.EnsureIndexes},
		{"notifications", repos.Notifications.EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}
