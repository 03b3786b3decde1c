package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medconnect/config"
	"medconnect/cron"
	"medconnect/database"
	"medconnect/handlers"
	"medconnect/routes"
	"medconnect/services/booking"
	"medconnect/services/notification"
	"medconnect/services/realtime"
	"medconnect/services/slots"
	"medconnect/services/tasks"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and real-time channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "ensure indexes on startup")
	return cmd
}

func serve(ctx context.Context, migrateUp bool) error {
	cfg := config.AppConfig
	logger := utils.GetLogger()

	slotConfigs, err := slots.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid slot configuration: %w", err)
	}

	repos, err := openRepositories(ctx)
	if err != nil {
		return err
	}
	defer database.Disconnect(context.Background())

	if migrateUp {
		if err := ensureIndexes(ctx, repos); err != nil {
			return err
		}
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, map[string]*redis.Client{
		"cache":    utils.GetCacheClient(),
		"presence": utils.GetPresenceClient(),
	}, database.MongoClient)

	hub := realtime.NewHub(realtime.NewRedisPresence(utils.GetPresenceClient(), utils.PresenceTTL), logger)
	broker := newBroker(logger)
	defer broker.Close()

	dir := newDirectory(repos, logger)
	notifier := newNotifier(ctx, repos, dir, hub, broker, logger)

	bookingSvc := booking.NewDefaultBookingService(repos.Bookings, dir, notifier, slotConfigs, logger)
	bookingSvc.Location = config.Location()
	bookingSvc.Currency = cfg.PaymentCurrency
	if cfg.StripeKey != "" {
		bookingSvc.Payments = booking.NewStripePaymentHandler(cfg.StripeKey, logger)
	} else {
		logger.Info("STRIPE_KEY not set, online payments will not create intents")
	}

	queue := asynq.NewClient(cron.RedisOpt(cfg))
	defer queue.Close()
	bookingSvc.Reminders = tasks.NewAsynqReminderScheduler(queue, cfg.ReminderLeadTime, config.Location())

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(utils.RequestLogger(logger))

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Booking:       handlers.NewBookingHandler(bookingSvc),
		Admin:         handlers.NewAdminHandler(dir),
		Device:        handlers.NewDeviceHandler(dir),
		Notifications: handlers.NewNotificationHandler(notification.NewRepoInbox(repos.Notifications)),
		Realtime:      handlers.NewRealtimeHandler(hub),
	}, cfg.MaxRequestsPerMin)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
