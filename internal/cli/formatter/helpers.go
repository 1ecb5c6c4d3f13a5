package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly date relative to now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// ExpiresIn describes how long a draft remains valid.
func ExpiresIn(expiresAt, now time.Time) string {
	d := expiresAt.Sub(now)
	switch {
	case d <= 0:
		return StyleRed.Render("expired")
	case d < time.Hour:
		return StyleYellow.Render(fmt.Sprintf("expires in %dm", int(d.Minutes())))
	default:
		return Dim(fmt.Sprintf("expires in %dh", int(d.Hours())))
	}
}

// MonthLabel turns "2025-03" into "March 2025", passing anything else through.
func MonthLabel(monthYear string) string {
	t, err := time.Parse(domain.MonthYearLayout, monthYear)
	if err != nil {
		return monthYear
	}
	return t.Format("January 2006")
}

// DueDate renders a task due date like "Mon Mar 3".
func DueDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// FormatHours converts whole hours into "2h", or "--" when unknown.
func FormatHours(h int) string {
	if h <= 0 {
		return "--"
	}
	return fmt.Sprintf("%dh", h)
}

// TruncKey returns the first 8 characters of a draft key, dimmed.
func TruncKey(key string) string {
	if len(key) > 8 {
		key = key[:8]
	}
	return StyleDim.Render(key)
}

// PlanStatusPill returns a colored indicator for a plan status.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanStatusConfirmed:
		return StyleGreen.Render("● Confirmed")
	case domain.PlanStatusDraft:
		return StyleYellow.Render("○ Draft")
	default:
		return StyleDim.Render(string(status))
	}
}

// CheckMark renders task completion.
func CheckMark(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
