package extract

import (
	"cmp"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
)

var breakdownKeyRe = regexp.MustCompile(`"weekly_breakdown"\s*:\s*\[`)

// breakdownFromFragment recovers weeks from a "weekly_breakdown": [...]
// fragment embedded in otherwise unparseable text. A truncated array still
// yields every week object that closed before the cut.
func breakdownFromFragment(raw string) ([]domain.WeeklyBreakdown, []error) {
	loc := breakdownKeyRe.FindStringIndex(raw)
	if loc == nil {
		return nil, nil
	}
	body := raw[loc[1]:]

	var errs []error
	var weeks []domain.WeeklyBreakdown
	seen := map[int]bool{}
	for i, obj := range balancedObjects(body, true) {
		var m map[string]any
		if err := json.Unmarshal([]byte(repairJSON(obj)), &m); err != nil {
			errs = append(errs, fmt.Errorf("week %d: %w", i+1, err))
			continue
		}
		week := coerceWeek(m, i+1)
		if seen[week.Week] {
			errs = append(errs, fmt.Errorf("duplicate week %d dropped", week.Week))
			continue
		}
		seen[week.Week] = true
		weeks = append(weeks, week)
	}
	return weeks, errs
}

// coerceWeek converts a loosely typed week object. Week numbers may arrive
// as numbers or strings; a missing or non-positive one falls back to pos.
func coerceWeek(m map[string]any, pos int) domain.WeeklyBreakdown {
	week := domain.WeeklyBreakdown{
		Week:  pos,
		Focus: asString(m["focus"]),
		Goals: asStrings(m["goals"]),
	}
	if n, ok := asInt(m["week"]); ok && n > 0 {
		week.Week = n
	}

	focus := week.Focus
	if focus == "" {
		focus = defaultFocusArea
	}
	if days, ok := m["daily_tasks"].(map[string]any); ok {
		week.DailyTasks = make(map[string][]domain.TaskDescription, len(days))
		for key, v := range days {
			day := domain.CanonicalDay(key)
			if day == "" {
				continue
			}
			items, _ := v.([]any)
			for _, item := range items {
				if t, ok := coerceTask(item, focus); ok {
					week.DailyTasks[day] = append(week.DailyTasks[day], t)
				}
			}
		}
	}
	week.EnsureAllDays()
	return week
}

func coerceTask(v any, focus string) (domain.TaskDescription, bool) {
	switch t := v.(type) {
	case string:
		desc := strings.TrimSpace(t)
		if desc == "" {
			return domain.TaskDescription{}, false
		}
		return domain.TaskDescription{
			TaskDescription:  desc,
			FocusArea:        focus,
			DifficultyLevel:  domain.DifficultyModerate,
			SchedulingReason: recoveredReason,
		}, true
	case map[string]any:
		desc := cmp.Or(asString(t["task_description"]), asString(t["task"]), asString(t["title"]), asString(t["description"]))
		if desc == "" {
			return domain.TaskDescription{}, false
		}
		return domain.TaskDescription{
			TaskDescription:  desc,
			FocusArea:        cmp.Or(asString(t["focus_area"]), focus),
			StartTime:        asString(t["start_time"]),
			EndTime:          asString(t["end_time"]),
			DifficultyLevel:  normalizeDifficulty(asString(t["difficulty_level"])),
			SchedulingReason: cmp.Or(asString(t["scheduling_reason"]), recoveredReason),
		}, true
	default:
		return domain.TaskDescription{}, false
	}
}

func normalizeDifficulty(s string) domain.Difficulty {
	switch d := domain.Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case domain.DifficultySimple, domain.DifficultyModerate, domain.DifficultyAdvanced:
		return d
	default:
		return domain.DifficultyModerate
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, line := range strings.Split(t, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), t == float64(int(t))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
