package domain

import "time"

// MonthYearLayout is the time layout of Draft.MonthYear and Plan.MonthYear.
const MonthYearLayout = "2006-01"

// Draft is generated plan content awaiting user confirmation. Drafts are
// never mutated after creation; they are only read or deleted.
type Draft struct {
	Key              string
	UserID           string
	PlanData         StructuredResponse
	Metadata         ExtractionMetadata
	Prompt           string
	RawResponse      string
	GoalPreferenceID int64
	MonthYear        string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the draft is no longer valid at now.
func (d *Draft) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}
