package materialize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planora/internal/domain"
)

func march2025(t *testing.T) time.Time {
	t.Helper()
	start, err := MonthStart("2025-03")
	require.NoError(t, err)
	return start
}

func TestMonthStart(t *testing.T) {
	start, err := MonthStart(" 2025-03 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)

	_, err = MonthStart("March 2025")
	assert.Error(t, err)
}

func TestTasks_DueDatePriorityAndHours(t *testing.T) {
	start := march2025(t)
	breakdown := []domain.WeeklyBreakdown{{
		Week: 2,
		DailyTasks: map[string][]domain.TaskDescription{
			"Wednesday": {{
				TaskDescription:  "Write launch copy",
				FocusArea:        "Content",
				StartTime:        "09:00",
				EndTime:          "11:00",
				DifficultyLevel:  domain.DifficultyAdvanced,
				SchedulingReason: "Morning focus",
			}},
		},
	}}

	tasks := Tasks(start, breakdown)

	require.Len(t, tasks, 1)
	got := tasks[0]
	assert.Equal(t, start.AddDate(0, 0, 9), got.DueDate)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, 2, got.EstimatedHours)
	assert.Equal(t, "Write launch copy", got.Title)
	assert.Equal(t, "Morning focus", got.Description)
	assert.Equal(t, "Content", got.Category)
	assert.Equal(t, 2, got.WeekNumber)
	assert.Equal(t, "Wednesday", got.DayOfWeek)
}

func TestTasks_CanonicalOrderAndCount(t *testing.T) {
	task := func(name string) domain.TaskDescription {
		return domain.TaskDescription{TaskDescription: name, StartTime: "10:00", EndTime: "11:00"}
	}
	breakdown := []domain.WeeklyBreakdown{
		{Week: 1, DailyTasks: map[string][]domain.TaskDescription{
			"Sunday":  {task("w1 sun")},
			"Monday":  {task("w1 mon a"), task("w1 mon b")},
			"Friday":  {task("w1 fri")},
			"Someday": {task("ignored")},
		}},
		{Week: 2, DailyTasks: map[string][]domain.TaskDescription{
			"tuesday": {task("w2 tue")},
		}},
	}

	tasks := Tasks(march2025(t), breakdown)

	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	assert.Equal(t, []string{"w1 mon a", "w1 mon b", "w1 fri", "w1 sun", "w2 tue"}, titles)
	assert.Equal(t, 1, tasks[0].EstimatedHours)
	assert.Equal(t, march2025(t).AddDate(0, 0, 8), tasks[4].DueDate)
}

func TestTasks_HoursFromISOAndClamping(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"iso", "2025-03-05T14:00:00Z", "2025-03-05T17:30:00Z", 3},
		{"local iso", "2025-03-05T08:15:00", "2025-03-05T10:45:00", 2},
		{"end before start", "15:00", "13:00", 0},
		{"unparseable", "morning", "noon", 0},
		{"missing", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimatedHours(tt.start, tt.end))
		})
	}
}

func TestTasks_PriorityFromDifficulty(t *testing.T) {
	breakdown := []domain.WeeklyBreakdown{{Week: 1, DailyTasks: map[string][]domain.TaskDescription{
		"Monday": {
			{TaskDescription: "a", DifficultyLevel: "Advanced"},
			{TaskDescription: "b", DifficultyLevel: domain.DifficultyModerate},
			{TaskDescription: "c", DifficultyLevel: domain.DifficultySimple},
			{TaskDescription: "d", DifficultyLevel: "unknown"},
		},
	}}}

	tasks := Tasks(march2025(t), breakdown)

	require.Len(t, tasks, 4)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)
	assert.Equal(t, domain.PriorityLow, tasks[2].Priority)
	assert.Equal(t, domain.PriorityLow, tasks[3].Priority)
}

func TestTasks_EmptyBreakdown(t *testing.T) {
	assert.Empty(t, Tasks(march2025(t), nil))
}

func TestConflicts(t *testing.T) {
	tasks := []domain.MaterializedTask{
		{Title: "overlaps work", DayOfWeek: "Monday", StartTime: "16:00", EndTime: "18:00", WeekNumber: 1},
		{Title: "after work", DayOfWeek: "Monday", StartTime: "17:00", EndTime: "18:00", WeekNumber: 1},
		{Title: "weekend", DayOfWeek: "Saturday", StartTime: "10:00", EndTime: "12:00", WeekNumber: 1},
		{Title: "gym clash", DayOfWeek: "Saturday", StartTime: "07:30", EndTime: "08:30", WeekNumber: 1},
		{Title: "no times", DayOfWeek: "Monday", WeekNumber: 1},
	}
	commitments := []domain.FixedCommitment{
		{Label: "Work", Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, Start: "09:00", End: "17:00"},
		{Label: "Gym", Start: "07:00", End: "08:00"},
	}

	conflicts := Conflicts(tasks, commitments)

	require.Len(t, conflicts, 2)
	assert.Equal(t, "overlaps work", conflicts[0].Task.Title)
	assert.Equal(t, "Work", conflicts[0].Commitment.Label)
	assert.Equal(t, "gym clash", conflicts[1].Task.Title)
	assert.Equal(t, "Gym", conflicts[1].Commitment.Label)

	msgs := Messages(conflicts)
	assert.Equal(t, `conflict: week 1 Monday "overlaps work" (16:00-18:00) overlaps Work (09:00-17:00)`, msgs[0])
}
