package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the manage command tree
func NewRootCmd() *cobra.Command {
	var envFile, databaseURL string
	var app *App

	root := &cobra.Command{
		Use:           "manage",
		Short:         "Task manager administration",
		Long:          `Manage runs database migrations, creates users and shows tasks from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if app, err = NewApp(envFile); err != nil {
				return err
			}
			if databaseURL != "" {
				app.Config.Set("DATABASE_URL", databaseURL)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "Environment file (defaults to ENV_FILE or .env)")
	root.PersistentFlags().StringVar(&databaseURL, "database", "", "Database URL overriding DATABASE_URL")

	appOf := func() *App { return app }
	root.AddCommand(
		migrateCmd(appOf),
		createUserCmd(appOf),
		tasksCmd(appOf),
		purgeSessionsCmd(appOf),
	)

	return root
}

// Execute runs the manage command with the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}
