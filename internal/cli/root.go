package cli

import (
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/extract"
	"github.com/alexanderramin/planora/internal/service"
	"github.com/spf13/cobra"
)

// App holds everything CLI commands need.
type App struct {
	Plans     service.PlanService
	Extractor *extract.Extractor

	UserID        string
	PurgeSchedule string
	Logger        *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "planora" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planora",
		Short:         "Turn monthly goals into a scheduled plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(app),
		newConfirmCmd(app),
		newDraftCmd(app),
		newPlanCmd(app),
		newTaskCmd(app),
		newExtractCmd(app),
		newJanitorCmd(app),
	)
	return root
}

// userError carries a message fit for the terminal while keeping the cause
// available to errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// present rewrites service errors into their user-facing form.
func present(err error) error {
	if err == nil {
		return nil
	}
	var ue *userError
	if errors.As(err, &ue) {
		return err
	}
	return &userError{msg: contract.FailureMessage(err), err: err}
}
