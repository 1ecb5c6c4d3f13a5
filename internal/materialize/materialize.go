// Package materialize turns a weekly breakdown into flat, dated tasks.
package materialize

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/domain"
)

var clockLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"15:04:05",
	"15:04",
}

// MonthStart parses a YYYY-MM month into its first day at midnight UTC.
func MonthStart(monthYear string) (time.Time, error) {
	t, err := time.Parse(domain.MonthYearLayout, strings.TrimSpace(monthYear))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", monthYear, err)
	}
	return t, nil
}

// Tasks flattens breakdown in week order, then Monday..Sunday, then task
// order. Days missing from a week are skipped, as are keys that are not day
// names.
func Tasks(monthStart time.Time, breakdown []domain.WeeklyBreakdown) []domain.MaterializedTask {
	var out []domain.MaterializedTask
	for _, week := range breakdown {
		for dayIndex, day := range domain.Weekdays {
			tasks := tasksForDay(week.DailyTasks, day)
			if len(tasks) == 0 {
				continue
			}
			due := monthStart.AddDate(0, 0, (week.Week-1)*7+dayIndex)
			for _, t := range tasks {
				out = append(out, domain.MaterializedTask{
					Title:          t.TaskDescription,
					Description:    t.SchedulingReason,
					DueDate:        due,
					Priority:       domain.PriorityForDifficulty(t.DifficultyLevel),
					Category:       t.FocusArea,
					EstimatedHours: estimatedHours(t.StartTime, t.EndTime),
					WeekNumber:     week.Week,
					DayOfWeek:      day,
					StartTime:      t.StartTime,
					EndTime:        t.EndTime,
				})
			}
		}
	}
	return out
}

// tasksForDay looks the day up exactly first, then case-insensitively, so
// "monday" keys from loosely formatted responses still count.
func tasksForDay(daily map[string][]domain.TaskDescription, day string) []domain.TaskDescription {
	if tasks, ok := daily[day]; ok {
		return tasks
	}
	for k, tasks := range daily {
		if domain.CanonicalDay(k) == day {
			return tasks
		}
	}
	return nil
}

// estimatedHours is the difference of the hour components, never negative.
// Times that cannot be parsed count as zero.
func estimatedHours(start, end string) int {
	s, okS := parseClock(start)
	e, okE := parseClock(end)
	if !okS || !okE {
		return 0
	}
	h := e.Hour() - s.Hour()
	if h < 0 {
		return 0
	}
	return h
}

func parseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// minuteOfDay returns the clock position of s in minutes since midnight.
func minuteOfDay(s string) (int, bool) {
	t, ok := parseClock(s)
	if !ok {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
