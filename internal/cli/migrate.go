package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := timeout(cmd.Context())
			defer cancel()

			if err := app().Migrate(ctx); err != nil {
				return err
			}

			app().Logger.Info("database migrated")
			printf(cmd.OutOrStdout(), "Database migrated\n")
			return nil
		},
	}
}

func purgeSessionsCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := timeout(cmd.Context())
			defer cancel()

			removed, err := app().PurgeSessions(ctx)
			if err != nil {
				return err
			}

			app().Logger.Info("expired sessions purged", zap.Int64("removed", removed))
			printf(cmd.OutOrStdout(), "Removed %d expired sessions\n", removed)
			return nil
		},
	}
}
