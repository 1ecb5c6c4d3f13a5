package domain

import (
	"fmt"
	"time"
)

type Plan struct {
	ID                   int64
	UserID               string
	PreferenceID         int64
	MonthYear            string
	AIPrompt             string
	AIResponseRaw        string
	MonthlySummary       string
	RawAIResponse        string
	ExtractionConfidence int
	ExtractionNotes      string
	Status               PlanStatus
	GeneratedAt          time.Time
	ConfirmedAt          *time.Time
}

// MaterializedTask is a flat, dated task derived from a WeeklyBreakdown.
type MaterializedTask struct {
	Title          string
	Description    string
	DueDate        time.Time
	Priority       Priority
	Category       string
	EstimatedHours int
	WeekNumber     int
	DayOfWeek      string
	StartTime      string
	EndTime        string
}

// PlanTask is a materialized task owned by a confirmed plan.
type PlanTask struct {
	ID     int64
	PlanID int64
	MaterializedTask
	Completed   bool
	CompletedAt *time.Time
}

// SetCompleted toggles completion, stamping CompletedAt when done.
func (t *PlanTask) SetCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		t.CompletedAt = &now
		return
	}
	t.CompletedAt = nil
}

// Validate checks the fields a plan record cannot be stored without.
func (p *Plan) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("plan user ID is required")
	}
	if _, err := time.Parse(MonthYearLayout, p.MonthYear); err != nil {
		return fmt.Errorf("plan month %q must be YYYY-MM", p.MonthYear)
	}
	if p.ExtractionConfidence < 0 || p.ExtractionConfidence > 100 {
		return fmt.Errorf("extraction confidence must be in [0,100], got %d", p.ExtractionConfidence)
	}
	return nil
}
