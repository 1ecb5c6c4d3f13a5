package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ConfidenceStyle colors an extraction confidence score: structured JSON is
// green, pattern recovery yellow, anything lower red.
func ConfidenceStyle(confidence int) lipgloss.Style {
	switch {
	case confidence >= 90:
		return StyleGreen
	case confidence >= 60:
		return StyleYellow
	default:
		return StyleRed
	}
}

// ConfidenceBadge renders e.g. "● 60% pattern".
func ConfidenceBadge(confidence int, format domain.DetectedFormat) string {
	label := fmt.Sprintf("● %d%%", confidence)
	if format != "" {
		label += " " + string(format)
	}
	return ConfidenceStyle(confidence).Render(label)
}

// PriorityPill returns a colored marker for a task priority.
func PriorityPill(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ High")
	case domain.PriorityMedium:
		return StyleYellow.Render("● Medium")
	case domain.PriorityLow:
		return StyleBlue.Render("▽ Low")
	default:
		return StyleDim.Render(string(p))
	}
}

// DifficultyLabel returns a short colored difficulty tag.
func DifficultyLabel(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyAdvanced:
		return StyleRed.Render("advanced")
	case domain.DifficultyModerate:
		return StyleYellow.Render("moderate")
	case domain.DifficultySimple:
		return StyleGreen.Render("simple")
	default:
		return StyleDim.Render("--")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
