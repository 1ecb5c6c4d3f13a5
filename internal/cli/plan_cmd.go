package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/planora/internal/cli/formatter"
	"github.com/alexanderramin/planora/internal/contract"
	"github.com/spf13/cobra"
)

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", kind, s)
	}
	return id, nil
}

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "View confirmed plans",
	}
	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanTasksCmd(app),
	)
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List plans, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plans, err := app.Plans.ListPlans(ctx, app.UserID)
			if err != nil {
				return present(err)
			}
			progress := make(map[int64]contract.TaskProgress, len(plans))
			for _, p := range plans {
				tasks, err := app.Plans.ListTasks(ctx, app.UserID, p.ID)
				if err != nil {
					return present(err)
				}
				progress[p.ID] = contract.NewTaskProgress(tasks)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, progress))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetPlan(cmd.Context(), app.UserID, id)
			if err != nil {
				return present(err)
			}
			tasks, err := app.Plans.ListTasks(cmd.Context(), app.UserID, id)
			if err != nil {
				return present(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(plan, tasks))
			return nil
		},
	}
}

func newPlanTasksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <plan-id>",
		Short: "List a plan's tasks in due order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Plans.ListTasks(cmd.Context(), app.UserID, id)
			if err != nil {
				return present(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTasks(tasks))
			return nil
		},
	}
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Track task completion",
	}
	cmd.AddCommand(newTaskDoneCmd(app))
	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			task, err := app.Plans.SetTaskCompleted(cmd.Context(), app.UserID, id, !undo)
			if err != nil {
				return present(err)
			}
			state := "done"
			if !task.Completed {
				state = "not done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s marked %s\n", formatter.CheckMark(task.Completed), task.Title, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task not done")
	return cmd
}
