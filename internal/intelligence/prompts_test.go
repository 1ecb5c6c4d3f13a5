package intelligence

import (
	"strings"
	"testing"

	"github.com/alexanderramin/planora/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildPlanPrompt_Deterministic(t *testing.T) {
	pref := domain.GoalPreference{
		GoalsText:         "Run a 10k",
		TaskComplexity:    domain.ComplexityAmbitious,
		FocusAreas:        []string{"Health", "Career"},
		WeekendPreference: "Rest on Sundays",
	}

	first := BuildPlanPrompt(pref, "2025-03")
	second := BuildPlanPrompt(pref, "2025-03")

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Plan the month of 2025-03.")
	assert.Contains(t, first, "Run a 10k")
	assert.Contains(t, first, "Task complexity: Ambitious")
	assert.Contains(t, first, complexityGuidance[domain.ComplexityAmbitious])
	assert.Contains(t, first, "Focus areas: Health, Career")
	assert.Contains(t, first, "Weekend preference: Rest on Sundays")
	assert.NotContains(t, first, "Fixed commitments")
}

func TestBuildPlanPrompt_ListsCommitments(t *testing.T) {
	pref := domain.GoalPreference{
		GoalsText:      "Write a novel",
		TaskComplexity: domain.ComplexitySimple,
		FixedCommitments: []domain.FixedCommitment{
			{Label: "Work", Days: []string{"Monday", "Tuesday"}, Start: "09:00", End: "17:00"},
			{Label: "Gym", Start: "18:00", End: "19:00"},
		},
	}

	prompt := BuildPlanPrompt(pref, "2025-04")

	assert.Contains(t, prompt, "Tasks MUST NOT overlap these windows:")
	assert.Contains(t, prompt, "1. Work: Monday, Tuesday, 09:00-17:00\n")
	assert.Contains(t, prompt, "2. Gym: every day, 18:00-19:00\n")
	assert.Less(t, strings.Index(prompt, "1. Work"), strings.Index(prompt, "2. Gym"))
}

func TestBuildPlanPrompt_OmitsEmptySections(t *testing.T) {
	prompt := BuildPlanPrompt(domain.GoalPreference{GoalsText: "Learn Go", TaskComplexity: domain.ComplexityBalanced}, "2025-05")

	assert.NotContains(t, prompt, "Focus areas")
	assert.NotContains(t, prompt, "Weekend preference")
}

func TestPlanSystemPrompt_DescribesContract(t *testing.T) {
	for _, field := range []string{"monthly_summary", "weekly_breakdown", "daily_tasks", "task_description", "difficulty_level", "personalization_notes"} {
		assert.Contains(t, planSystemPrompt, field)
	}
}
