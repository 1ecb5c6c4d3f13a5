package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/planora/internal/janitor"
	"github.com/spf13/cobra"
)

func newJanitorCmd(app *App) *cobra.Command {
	var once bool
	var schedule string

	cmd := &cobra.Command{
		Use:   "janitor",
		Short: "Purge expired drafts on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = app.PurgeSchedule
			}
			j, err := janitor.New(app.Plans, schedule,
				janitor.WithLogger(app.Logger),
				janitor.WithClock(app.now),
			)
			if err != nil {
				return err
			}

			if once {
				n, err := j.RunOnce(cmd.Context())
				if err != nil {
					return present(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired draft(s)\n", n)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Janitor running on %q, next purge %s. Ctrl-C to stop.\n",
				schedule, j.Next(app.now()).Format("15:04"))
			return j.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Purge once and exit")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule, overrides the configured one")
	return cmd
}
