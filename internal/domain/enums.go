package domain

import "strings"

type DetectedFormat string

const (
	FormatJSON  DetectedFormat = "json"
	FormatMixed DetectedFormat = "mixed"
	FormatText  DetectedFormat = "text"
)

type Difficulty string

const (
	DifficultySimple   Difficulty = "simple"
	DifficultyModerate Difficulty = "moderate"
	DifficultyAdvanced Difficulty = "advanced"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityForDifficulty maps a task difficulty onto a task priority.
// Unknown or empty difficulties are treated as simple.
func PriorityForDifficulty(d Difficulty) Priority {
	switch Difficulty(strings.ToLower(string(d))) {
	case DifficultyAdvanced:
		return PriorityHigh
	case DifficultyModerate:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Complexity is the task complexity tier requested by the user.
type Complexity string

const (
	ComplexitySimple    Complexity = "Simple"
	ComplexityBalanced  Complexity = "Balanced"
	ComplexityAmbitious Complexity = "Ambitious"
)

// ValidComplexities is the canonical set of accepted complexity tiers.
var ValidComplexities = map[Complexity]bool{
	ComplexitySimple:    true,
	ComplexityBalanced:  true,
	ComplexityAmbitious: true,
}

// ParseComplexity matches s case-insensitively against the known tiers.
func ParseComplexity(s string) (Complexity, bool) {
	for c := range ValidComplexities {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusConfirmed PlanStatus = "CONFIRMED"
)
