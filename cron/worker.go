// Package cron runs the asynq worker that delivers scheduled appointment reminders.
package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medconnect/config"
	"medconnect/database/repository"
	bookingRepo "medconnect/database/repository/booking"
	"medconnect/models"
	"medconnect/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Reminder delivers the reminder for a booking.
type Reminder interface {
	Remind(ctx context.Context, b models.Booking)
}

// RedisOpt builds the asynq connection from the app config.
func RedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderQueueDB,
	}
}

// RunReminderWorker processes reminder tasks until ctx is canceled.
func RunReminderWorker(ctx context.Context, cfg config.Config, repo bookingRepo.BookingRepository, reminder Reminder, logger *zap.Logger) error {
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(repo, reminder, logger))

	go monitorRedisConnection(ctx, cfg, logger)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			break
		}
		logger.Warn("Reminder worker failed to start",
			zap.Int("attempt", attempts),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts*2) * time.Second):
		}
	}
	if err != nil {
		return fmt.Errorf("reminder worker: %w", err)
	}

	logger.Info("Reminder worker started")
	<-ctx.Done()
	srv.Shutdown()
	logger.Info("Reminder worker stopped")
	return nil
}

// HandleReminderTask loads the booking and sends the reminder if the visit is still on.
// Reminders for bookings that were canceled or moved since scheduling are dropped.
func HandleReminderTask(repo bookingRepo.BookingRepository, reminder Reminder, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderPayload(task)
		if err != nil {
			logger.Error("Invalid reminder task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		b, err := repo.GetByID(ctx, p.BookingID)
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Reminder for unknown booking", zap.String("bookingId", p.BookingID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load booking %s: %w", p.BookingID, err)
		}

		if b.Status != models.StatusConfirmed || b.Date != p.Date || b.StartTime != p.StartTime {
			logger.Info("Dropping stale reminder",
				zap.String("bookingId", b.ID),
				zap.String("status", string(b.Status)),
			)
			return nil
		}

		logger.Info("Sending appointment reminder", zap.String("bookingId", b.ID))
		reminder.Remind(ctx, *b)
		return nil
	}
}

// monitorRedisConnection pings the queue's Redis periodically to surface outages.
func monitorRedisConnection(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Reminder queue Redis unreachable", zap.Error(err))
			}
		}
	}
}
