package testutil

import (
	"time"

	"github.com/alexanderramin/planora/internal/domain"
	"github.com/google/uuid"
)

// TestUserID is the user every fixture belongs to unless overridden.
const TestUserID = "user-1"

// Preference options
type PreferenceOption func(*domain.GoalPreference)

func WithComplexity(c domain.Complexity) PreferenceOption {
	return func(p *domain.GoalPreference) {
		p.TaskComplexity = c
	}
}

func WithFocusAreas(areas ...string) PreferenceOption {
	return func(p *domain.GoalPreference) {
		p.FocusAreas = areas
	}
}

func WithCommitment(label string, days []string, start, end string) PreferenceOption {
	return func(p *domain.GoalPreference) {
		p.FixedCommitments = append(p.FixedCommitments, domain.FixedCommitment{
			Label: label, Days: days, Start: start, End: end,
		})
	}
}

func NewTestPreference(goals string, opts ...PreferenceOption) *domain.GoalPreference {
	p := &domain.GoalPreference{
		UserID:            TestUserID,
		GoalsText:         goals,
		TaskComplexity:    domain.ComplexityBalanced,
		FocusAreas:        []string{"Health"},
		WeekendPreference: "Light",
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Draft options
type DraftOption func(*domain.Draft)

func WithDraftUser(userID string) DraftOption {
	return func(d *domain.Draft) {
		d.UserID = userID
	}
}

func WithCreatedAt(t time.Time) DraftOption {
	return func(d *domain.Draft) {
		ttl := d.ExpiresAt.Sub(d.CreatedAt)
		d.CreatedAt = t
		d.ExpiresAt = t.Add(ttl)
	}
}

func WithExpiresAt(t time.Time) DraftOption {
	return func(d *domain.Draft) {
		d.ExpiresAt = t
	}
}

func WithMonthYear(m string) DraftOption {
	return func(d *domain.Draft) {
		d.MonthYear = m
	}
}

func WithPreferenceID(id int64) DraftOption {
	return func(d *domain.Draft) {
		d.GoalPreferenceID = id
	}
}

func NewTestDraft(opts ...DraftOption) *domain.Draft {
	now := time.Now().UTC().Truncate(time.Second)
	d := &domain.Draft{
		Key:         uuid.New().String(),
		UserID:      TestUserID,
		PlanData:    NewTestPlanData(),
		Metadata:    domain.ExtractionMetadata{Confidence: 60, DetectedFormat: domain.FormatText, ExtractionNotes: "recovered from text", ParsingErrors: []string{}, MissingFields: []string{}},
		Prompt:      "Plan the month",
		RawResponse: "raw model text",
		MonthYear:   "2025-03",
		CreatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// NewTestPlanData returns a one-week plan with three tasks: two on Monday
// and one on Wednesday.
func NewTestPlanData() domain.StructuredResponse {
	week := domain.WeeklyBreakdown{
		Week:  1,
		Focus: "Foundations",
		Goals: []string{"Build a routine"},
		DailyTasks: map[string][]domain.TaskDescription{
			"Monday": {
				{TaskDescription: "Morning run", FocusArea: "Health", StartTime: "07:00", EndTime: "08:00", DifficultyLevel: domain.DifficultySimple, SchedulingReason: "Before work"},
				{TaskDescription: "Read a chapter", FocusArea: "Learning", StartTime: "20:00", EndTime: "21:00", DifficultyLevel: domain.DifficultyModerate, SchedulingReason: "Evening wind-down"},
			},
			"Wednesday": {
				{TaskDescription: "Long study block", FocusArea: "Learning", StartTime: "09:00", EndTime: "12:00", DifficultyLevel: domain.DifficultyAdvanced, SchedulingReason: "Peak focus"},
			},
		},
	}
	week.EnsureAllDays()
	return domain.StructuredResponse{
		MonthlySummary:       "Build healthy habits and study consistently.",
		WeeklyBreakdown:      []domain.WeeklyBreakdown{week},
		PersonalizationNotes: []string{"Weekends kept free"},
	}
}

// TestPlanJSON is NewTestPlanData as a model would return it.
const TestPlanJSON = `{
  "monthly_summary": "Build healthy habits and study consistently.",
  "weekly_breakdown": [
    {
      "week": 1,
      "focus": "Foundations",
      "goals": ["Build a routine"],
      "daily_tasks": {
        "Monday": [
          {"task_description": "Morning run", "focus_area": "Health", "start_time": "07:00", "end_time": "08:00", "difficulty_level": "simple", "scheduling_reason": "Before work"},
          {"task_description": "Read a chapter", "focus_area": "Learning", "start_time": "20:00", "end_time": "21:00", "difficulty_level": "moderate", "scheduling_reason": "Evening wind-down"}
        ],
        "Tuesday": [],
        "Wednesday": [
          {"task_description": "Long study block", "focus_area": "Learning", "start_time": "09:00", "end_time": "12:00", "difficulty_level": "advanced", "scheduling_reason": "Peak focus"}
        ],
        "Thursday": [], "Friday": [], "Saturday": [], "Sunday": []
      }
    }
  ],
  "personalization_notes": ["Weekends kept free"]
}`
