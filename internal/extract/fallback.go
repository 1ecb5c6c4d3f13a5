package extract

import (
	"fmt"

	"github.com/alexanderramin/planora/internal/domain"
)

// TextFallback guarantees a usable schedule: when nothing earlier produced
// a weekly breakdown it installs a default week.
type TextFallback struct{}

func (TextFallback) Name() string { return "text_fallback" }
func (TextFallback) Tier() int    { return ConfidenceText }

func (TextFallback) Apply(_ string, st *State) (Outcome, error) {
	if len(st.Data.WeeklyBreakdown) == 0 {
		st.Data.WeeklyBreakdown = []domain.WeeklyBreakdown{DefaultWeek()}
		st.note("no weekly breakdown found; using default week")
	}
	return OutcomePartial, nil
}

// DefaultWeek returns week 1 with one placeholder task on every day.
func DefaultWeek() domain.WeeklyBreakdown {
	week := domain.WeeklyBreakdown{
		Week:       1,
		Focus:      defaultFocusArea,
		Goals:      []string{"Make steady progress on the monthly goal"},
		DailyTasks: make(map[string][]domain.TaskDescription, len(domain.Weekdays)),
	}
	for _, day := range domain.Weekdays {
		week.DailyTasks[day] = []domain.TaskDescription{{
			TaskDescription:  fmt.Sprintf("Work on monthly goal (%s)", day),
			FocusArea:        defaultFocusArea,
			StartTime:        "09:00",
			EndTime:          "10:00",
			DifficultyLevel:  domain.DifficultySimple,
			SchedulingReason: "Default schedule; the response could not be parsed",
		}}
	}
	return week
}
