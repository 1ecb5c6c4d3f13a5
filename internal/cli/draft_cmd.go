package cli

import (
	"fmt"

	"github.com/alexanderramin/planora/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newConfirmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <draft-key>",
		Short: "Save a draft as a permanent plan with dated tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Plans.Confirm(cmd.Context(), app.UserID, args[0])
			if err != nil {
				return present(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatConfirmed(resp))
			return nil
		},
	}
}

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect and manage plan drafts",
	}
	cmd.AddCommand(
		newDraftShowCmd(app),
		newDraftLatestCmd(app),
		newDraftDiscardCmd(app),
		newDraftPurgeCmd(app),
	)
	return cmd
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-key>",
		Short: "Show a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Plans.GetDraft(cmd.Context(), app.UserID, args[0])
			if err != nil {
				return present(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDraft(view, app.now()))
			return nil
		},
	}
}

func newDraftLatestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent unexpired draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Plans.GetLatestDraft(cmd.Context(), app.UserID)
			if err != nil {
				return present(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDraft(view, app.now()))
			return nil
		},
	}
}

func newDraftDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <draft-key>",
		Short: "Delete a draft without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := app.Plans.DiscardDraft(cmd.Context(), app.UserID, args[0])
			if err != nil {
				return present(err)
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No draft with that key."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discarded draft %s\n", args[0])
			return nil
		},
	}
}

func newDraftPurgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every expired draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Plans.PurgeExpiredDrafts(cmd.Context(), app.now())
			if err != nil {
				return present(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired draft(s)\n", n)
			return nil
		},
	}
}
