package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planora/internal/cli/formatter"
	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// planoraHuhTheme returns a huh theme using the formatter palette.
func planoraHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// planInput collects what the generate form and flags fill in.
type planInput struct {
	Goals       string
	Complexity  string
	Focus       string
	Weekend     string
	Commitments string
}

// planForm builds the interactive form for the generate command.
func planForm(in *planInput) *huh.Form {
	if in.Complexity == "" {
		in.Complexity = string(domain.ComplexityBalanced)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What do you want to achieve this month?").
				Placeholder("Run a 10k, finish the Go course, read two books").
				Value(&in.Goals).
				Validate(validateRequired("goals")),
			huh.NewSelect[string]().
				Title("Task complexity").
				Options(
					huh.NewOption("Simple: light, one short task a day", string(domain.ComplexitySimple)),
					huh.NewOption("Balanced: one or two tasks a day", string(domain.ComplexityBalanced)),
					huh.NewOption("Ambitious: dense schedule", string(domain.ComplexityAmbitious)),
				).
				Value(&in.Complexity),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Focus areas (comma separated, optional)").
				Placeholder("Health, Career").
				Value(&in.Focus),
			huh.NewInput().
				Title("Weekend preference (optional)").
				Placeholder("Keep Sundays free").
				Value(&in.Weekend),
			huh.NewText().
				Title("Fixed commitments, one per line (optional)").
				Description("Label|Mon,Tue|09:00-17:00. Leave the days empty for every day.").
				Value(&in.Commitments).
				Validate(validateCommitments),
		),
	).WithTheme(planoraHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s are required", field)
		}
		return nil
	}
}

func validateCommitments(s string) error {
	_, err := parseCommitmentLines(s)
	return err
}

// parseCommitmentLines parses one commitment per non-blank line.
func parseCommitmentLines(s string) ([]domain.FixedCommitment, error) {
	var out []domain.FixedCommitment
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		c, err := contract.ParseCommitment(line)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
