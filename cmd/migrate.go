package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"medconnect/database"
	"medconnect/utils"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create collection indexes, including the held-slot uniqueness index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			repos, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer database.Disconnect(context.Background())

			if err := ensureIndexes(ctx, repos); err != nil {
				return err
			}
			utils.GetLogger().Info("Indexes are up to date")
			return nil
		},
	}
}
