package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planora/internal/cli/formatter"
	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		in          planInput
		focus       []string
		commitments []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan draft for the current month",
		Long: `Generate asks the model for a monthly plan and stores it as a draft.
Nothing becomes permanent until the draft is confirmed.

Without --goals on an interactive terminal a form collects the inputs.`,
		Example: `  planora generate --goals "Run a 10k" --complexity Ambitious --focus Health
  planora generate --goals "Ship the side project" --commitment "Work|Mon,Tue,Wed,Thu,Fri|09:00-17:00"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Focus = strings.Join(focus, ",")
			in.Commitments = strings.Join(commitments, "\n")

			if strings.TrimSpace(in.Goals) == "" {
				if !app.interactive() {
					return fmt.Errorf("--goals is required")
				}
				if err := planForm(&in).Run(); err != nil {
					return err
				}
			}

			req, err := buildGenerateRequest(app.UserID, in)
			if err != nil {
				return present(err)
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating your plan...")
			}
			resp, err := app.Plans.Generate(cmd.Context(), req)
			stop()
			if err != nil {
				return present(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatGenerated(resp, app.now()))
			return nil
		},
	}

	bindPlanFlags(cmd.Flags(), &in, &focus, &commitments)
	return cmd
}

func bindPlanFlags(fs *pflag.FlagSet, in *planInput, focus, commitments *[]string) {
	in.Complexity = string(domain.ComplexityBalanced)
	fs.StringVar(&in.Goals, "goals", "", "What you want to achieve this month")
	fs.Var((*complexityFlag)(&in.Complexity), "complexity", "Simple, Balanced or Ambitious")
	fs.StringSliceVar(focus, "focus", nil, "Focus areas (repeatable or comma separated)")
	fs.StringVar(&in.Weekend, "weekend", "", "Weekend preference")
	fs.StringArrayVar(commitments, "commitment", nil, `Fixed commitment "Label|Mon,Tue|09:00-17:00" (repeatable)`)
}

// complexityFlag accepts a complexity tier in any case and stores its
// canonical spelling.
type complexityFlag string

var _ pflag.Value = (*complexityFlag)(nil)

func (c *complexityFlag) String() string { return string(*c) }
func (c *complexityFlag) Type() string   { return "complexity" }

func (c *complexityFlag) Set(s string) error {
	tier, ok := domain.ParseComplexity(s)
	if !ok {
		return fmt.Errorf("must be one of %s, %s or %s", domain.ComplexitySimple, domain.ComplexityBalanced, domain.ComplexityAmbitious)
	}
	*c = complexityFlag(tier)
	return nil
}

func buildGenerateRequest(userID string, in planInput) (contract.GenerateRequest, error) {
	req := contract.NewGenerateRequest(userID, strings.TrimSpace(in.Goals))
	if in.Complexity != "" {
		req.TaskComplexity = domain.Complexity(in.Complexity)
	}
	req.FocusAreas = splitList(in.Focus)
	req.WeekendPreference = strings.TrimSpace(in.Weekend)

	commitments, err := parseCommitmentLines(in.Commitments)
	if err != nil {
		return contract.GenerateRequest{}, err
	}
	req.FixedCommitments = commitments
	return req, nil
}
