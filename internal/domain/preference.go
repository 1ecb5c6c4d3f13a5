package domain

import "time"

// FixedCommitment is a recurring window the generator is told not to
// schedule over. Start and End are HH:MM clocks. Empty Days means every day.
type FixedCommitment struct {
	Label string   `json:"label"`
	Days  []string `json:"days,omitempty"`
	Start string   `json:"start"`
	End   string   `json:"end"`
}

// AppliesTo reports whether the commitment covers the given canonical day.
func (c FixedCommitment) AppliesTo(day string) bool {
	if len(c.Days) == 0 {
		return true
	}
	for _, d := range c.Days {
		if CanonicalDay(d) == day {
			return true
		}
	}
	return false
}

// GoalPreference is the raw planning input, persisted before any model call.
type GoalPreference struct {
	ID                int64
	UserID            string
	GoalsText         string
	TaskComplexity    Complexity
	FocusAreas        []string
	WeekendPreference string
	FixedCommitments  []FixedCommitment
	CreatedAt         time.Time
}
