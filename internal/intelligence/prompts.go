package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
)

// planSystemPrompt describes the JSON contract the extractor understands best.
const planSystemPrompt = `You are a monthly planning assistant for Planora, a CLI goal planner.
Turn the user's goals into a concrete month of scheduled work.

You MUST output ONLY a JSON object with exactly these fields:
{
  "monthly_summary": "one or two sentences describing the month",
  "weekly_breakdown": [
    {
      "week": 1,
      "focus": "theme of the week",
      "goals": ["goal for this week"],
      "daily_tasks": {
        "Monday": [
          {
            "task_description": "what to do",
            "focus_area": "one of the user's focus areas",
            "start_time": "09:00",
            "end_time": "10:30",
            "difficulty_level": "simple" | "moderate" | "advanced",
            "scheduling_reason": "why this slot"
          }
        ],
        "Tuesday": [], "Wednesday": [], "Thursday": [], "Friday": [], "Saturday": [], "Sunday": []
      }
    }
  ],
  "personalization_notes": ["how the plan reflects the user's preferences"]
}

RULES:
1. Produce 4 weeks, numbered 1 to 4.
2. Every week lists all seven days, Monday to Sunday. Use an empty array for rest days.
3. Times are 24-hour HH:MM clocks. end_time is after start_time.
4. Do not wrap the JSON in markdown and do not add commentary.`

// complexityGuidance maps each tier to how dense the schedule should be.
var complexityGuidance = map[domain.Complexity]string{
	domain.ComplexitySimple:    "Keep it light: at most one short task per day, mostly simple difficulty.",
	domain.ComplexityBalanced:  "Aim for one or two tasks per day with a mix of simple and moderate work.",
	domain.ComplexityAmbitious: "Schedule two or three tasks on most days, including advanced work each week.",
}

// BuildPlanPrompt renders the user prompt. Output depends only on its inputs.
func BuildPlanPrompt(pref domain.GoalPreference, monthYear string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan the month of %s.\n\n", monthYear)
	fmt.Fprintf(&b, "Goals:\n%s\n\n", strings.TrimSpace(pref.GoalsText))

	fmt.Fprintf(&b, "Task complexity: %s\n", pref.TaskComplexity)
	if g, ok := complexityGuidance[pref.TaskComplexity]; ok {
		b.WriteString(g)
		b.WriteString("\n")
	}

	if len(pref.FocusAreas) > 0 {
		fmt.Fprintf(&b, "\nFocus areas: %s\n", strings.Join(pref.FocusAreas, ", "))
	}
	if w := strings.TrimSpace(pref.WeekendPreference); w != "" {
		fmt.Fprintf(&b, "\nWeekend preference: %s\n", w)
	}

	if len(pref.FixedCommitments) > 0 {
		b.WriteString("\nFixed commitments. Tasks MUST NOT overlap these windows:\n")
		for i, c := range pref.FixedCommitments {
			days := "every day"
			if len(c.Days) > 0 {
				days = strings.Join(c.Days, ", ")
			}
			fmt.Fprintf(&b, "%d. %s: %s, %s-%s\n", i+1, c.Label, days, c.Start, c.End)
		}
	}

	return b.String()
}
