package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"medconnect/config"
	"medconnect/cron"
	"medconnect/database"
	"medconnect/utils"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver scheduled appointment reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			logger := utils.GetLogger()

			repos, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer database.Disconnect(context.Background())

			broker := newBroker(logger)
			defer broker.Close()

			dir := newDirectory(repos, logger)
			notifier := newNotifier(ctx, repos, dir, nil, broker, logger)

			return cron.RunReminderWorker(ctx, config.AppConfig, repos.Bookings, notifier, logger)
		},
	}
}
