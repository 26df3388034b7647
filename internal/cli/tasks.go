package cli

import (
	"fmt"
	"strconv"

	"github.com/ethanbaker/taskmanager/pkg/sdk"
	"github.com/ethanbaker/taskmanager/pkg/tracker"
	"github.com/spf13/cobra"
)

func tasksCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show tasks",
	}

	cmd.AddCommand(tasksListCmd(app), tasksShowCmd(app))
	return cmd
}

func tasksListCmd(app func() *App) *cobra.Command {
	var filter tracker.TaskFilter
	var server, apiKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks as a table",
		Long: `List tasks as a table. Filters combine with AND.

With --server the tasks are read from a running server's JSON API instead of
the local database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, cancel := timeout(cmd.Context())
			defer cancel()

			var rows []taskRow
			if server != "" {
				if apiKey == "" {
					apiKey = a.Config.Get("API_KEY")
				}

				client := sdk.NewClient(server, apiKey)
				tasks, err := client.ListTasks(ctx, sdk.TaskQuery{
					Status:   filter.StatusID,
					Executor: filter.ExecutorID,
					Label:    filter.LabelID,
					Author:   filter.AuthorID,
				})
				if err != nil {
					return err
				}
				for _, task := range tasks {
					rows = append(rows, rowFromSDK(task))
				}
			} else {
				store, err := a.Store()
				if err != nil {
					return err
				}
				tasks, err := store.ListTasks(ctx, filter)
				if err != nil {
					return err
				}
				for _, task := range tasks {
					rows = append(rows, rowFromTask(task))
				}
			}

			if len(rows) == 0 {
				printf(cmd.OutOrStdout(), "No tasks found\n")
				return nil
			}

			printf(cmd.OutOrStdout(), "%s\n", renderTaskTable(rows))
			return nil
		},
	}

	cmd.Flags().UintVar(&filter.StatusID, "status", 0, "Only tasks in this status")
	cmd.Flags().UintVar(&filter.ExecutorID, "executor", 0, "Only tasks executed by this user")
	cmd.Flags().UintVar(&filter.LabelID, "label", 0, "Only tasks carrying this label")
	cmd.Flags().UintVar(&filter.AuthorID, "author", 0, "Only tasks created by this user")
	cmd.Flags().StringVar(&server, "server", "", "Base URL of a running server, e.g. http://localhost:8080")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for --server (defaults to API_KEY)")

	return cmd
}

func tasksShowCmd(app func() *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			ctx, cancel := timeout(cmd.Context())
			defer cancel()

			store, err := app().Store()
			if err != nil {
				return err
			}

			task, err := store.GetTask(ctx, uint(id))
			if err != nil {
				return fmt.Errorf("task %d: %w", id, err)
			}

			out, err := renderTaskDetail(rowFromTask(*task), task.Description, width)
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "%s\n", out)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap the description at this many columns")
	return cmd
}
