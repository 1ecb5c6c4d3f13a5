package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/domain"
)

const (
	minTaskDescLen   = 10
	defaultTaskHours = 2.0
	dayStartMinutes  = 9 * 60
	lastMinuteOfDay  = 23*60 + 59
	recoveredReason  = "Recovered from text response"
	defaultFocusArea = "General"
)

var (
	weekWithLabelRe = regexp.MustCompile(`(?is)\bweek\s*(\d{1,2})\b.{0,200}?\b(?:focus|goals?)\s*:`)
	weekHeadingRe   = regexp.MustCompile(`(?im)^[\s#*>\-]*week\s*(\d{1,2})\b`)
	focusRe         = regexp.MustCompile(`(?im)\bfocus\s*:\s*\**\s*(\S[^\n]*)$`)
	goalsHeaderRe   = regexp.MustCompile(`(?im)^[\s#*>\-]*goals?\**[ \t]*:[ \t]*\**[ \t]*([^\n]*)$`)
	bulletLineRe    = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s+(.+?)\s*$`)
	dayHeaderRe     = regexp.MustCompile(`(?i)^[\s#*>\-]*(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b\**\s*[:\-]?\s*(.*)$`)
	sectionBreakRe  = regexp.MustCompile(`(?i)^[\s#*>]*(?:week\s*\d|(?:goals?|focus)\**\s*:)`)

	dashTaskRe     = regexp.MustCompile(`^\s*[-*•+]\s+(.+?)\s*$`)
	numberedTaskRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.+?)\s*$`)
	durationRe     = regexp.MustCompile(`(?i)\s*[\(\[]\s*(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minutes)\s*[\)\]]\s*$`)
	trailingDurRe  = regexp.MustCompile(`(?i)^\s*(.+?)\s*[\(\[]\s*(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minutes)\s*[\)\]]\s*$`)
)

// Patterns recovers fields from prose and malformed JSON with regular
// expressions. It never completes the chain.
type Patterns struct{}

func (Patterns) Name() string { return "patterns" }
func (Patterns) Tier() int    { return ConfidencePattern }

func (Patterns) Apply(raw string, st *State) (Outcome, error) {
	recovered := false

	if st.Data.MonthlySummary == "" {
		if s, how := findSummary(raw); s != "" {
			st.Data.MonthlySummary = s
			st.note("monthly summary recovered from %s", how)
			recovered = true
		}
	}

	if len(st.Data.WeeklyBreakdown) == 0 {
		weeks, errs := breakdownFromFragment(raw)
		for _, e := range errs {
			st.fail("weekly_breakdown fragment: %v", e)
		}
		if len(weeks) > 0 {
			st.note("weekly breakdown recovered from JSON fragment (%d weeks)", len(weeks))
		} else {
			weeks = breakdownFromText(raw)
			if len(weeks) > 0 {
				st.note("weekly breakdown recovered from text (%d weeks)", len(weeks))
			}
		}
		if len(weeks) > 0 {
			st.Data.WeeklyBreakdown = weeks
			recovered = true
		}
	}

	if !recovered {
		return OutcomeSkipped, nil
	}
	return OutcomePartial, nil
}

// breakdownFromText discovers week sections and parses each one independently.
func breakdownFromText(raw string) []domain.WeeklyBreakdown {
	anchors := weekAnchors(raw)
	numbers := distinctWeeks(anchors)
	if len(numbers) == 0 {
		return nil
	}
	weeks := make([]domain.WeeklyBreakdown, 0, len(numbers))
	for _, n := range numbers {
		weeks = append(weeks, parseWeek(n, weekSection(raw, anchors, n)))
	}
	return weeks
}

// weekAnchor is a week heading found in the text.
type weekAnchor struct {
	week int
	pos  int
}

// weekAnchors locates week headings. Headings at the start of a line win;
// inline "week N ... focus:" phrases are only used when there are none, so
// a task that mentions another week never splits a section.
func weekAnchors(raw string) []weekAnchor {
	locs := weekHeadingRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		locs = weekWithLabelRe.FindAllStringSubmatchIndex(raw, -1)
	}
	var out []weekAnchor
	for _, loc := range locs {
		n, err := strconv.Atoi(raw[loc[2]:loc[3]])
		if err != nil || n <= 0 {
			continue
		}
		pos := loc[0] + strings.LastIndex(strings.ToLower(raw[loc[0]:loc[2]]), "week")
		out = append(out, weekAnchor{week: n, pos: pos})
	}
	return out
}

// distinctWeeks returns the anchored week numbers once each, ascending.
func distinctWeeks(anchors []weekAnchor) []int {
	seen := map[int]bool{}
	var out []int
	for _, a := range anchors {
		if !seen[a.week] {
			seen[a.week] = true
			out = append(out, a.week)
		}
	}
	sort.Ints(out)
	return out
}

// weekSection returns the text from the first heading of week n up to the
// next heading of a different week.
func weekSection(raw string, anchors []weekAnchor, n int) string {
	start := -1
	for _, a := range anchors {
		if start < 0 {
			if a.week == n {
				start = a.pos
			}
			continue
		}
		if a.week != n {
			return raw[start:a.pos]
		}
	}
	if start < 0 {
		return ""
	}
	return raw[start:]
}

func parseWeek(n int, section string) domain.WeeklyBreakdown {
	week := domain.WeeklyBreakdown{Week: n, Goals: parseGoals(section)}
	if m := focusRe.FindStringSubmatch(section); m != nil {
		week.Focus = cleanLine(m[1])
	}
	focus := week.Focus
	if focus == "" {
		focus = defaultFocusArea
	}

	days := parseDayBlocks(section)
	week.DailyTasks = make(map[string][]domain.TaskDescription, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		tasks := tasksFromLines(days[day], focus)
		if len(tasks) == 0 {
			tasks = []domain.TaskDescription{syntheticTask(day, focus)}
		}
		week.DailyTasks[day] = tasks
	}
	return week
}

// parseGoals reads "Goals:" with inline items or a bullet list below it.
func parseGoals(section string) []string {
	goals := []string{}
	loc := goalsHeaderRe.FindStringSubmatchIndex(section)
	if loc == nil {
		return goals
	}
	if inline := strings.TrimSpace(section[loc[2]:loc[3]]); inline != "" {
		for _, g := range strings.FieldsFunc(inline, func(r rune) bool { return r == ';' || r == ',' }) {
			if g = cleanLine(g); g != "" {
				goals = append(goals, g)
			}
		}
		return goals
	}
	for _, line := range strings.Split(section[loc[1]:], "\n") {
		if strings.TrimSpace(line) == "" {
			if len(goals) > 0 {
				break
			}
			continue
		}
		m := bulletLineRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		goals = append(goals, cleanLine(m[1]))
	}
	return goals
}

// parseDayBlocks groups the lines under each day heading. Text on the
// heading line itself counts as the first line of the block.
func parseDayBlocks(section string) map[string][]string {
	blocks := map[string][]string{}
	current := ""
	for _, line := range strings.Split(section, "\n") {
		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			current = domain.CanonicalDay(m[1])
			if rest := strings.TrimSpace(m[2]); rest != "" {
				blocks[current] = append(blocks[current], rest)
			}
			continue
		}
		if current == "" {
			continue
		}
		if sectionBreakRe.MatchString(line) && !isTaskBullet(line) {
			current = ""
			continue
		}
		blocks[current] = append(blocks[current], line)
	}
	return blocks
}

func isTaskBullet(line string) bool {
	return dashTaskRe.MatchString(line) || numberedTaskRe.MatchString(line)
}

// tasksFromLines parses task-like lines and lays them out from 09:00.
func tasksFromLines(lines []string, focus string) []domain.TaskDescription {
	var tasks []domain.TaskDescription
	clock := dayStartMinutes
	for _, line := range lines {
		desc, hours, ok := parseTaskLine(line)
		if !ok {
			continue
		}
		start := clock
		end := start + int(hours*60+0.5)
		if end > lastMinuteOfDay {
			end = lastMinuteOfDay
		}
		tasks = append(tasks, domain.TaskDescription{
			TaskDescription:  desc,
			FocusArea:        focus,
			StartTime:        formatClock(start),
			EndTime:          formatClock(end),
			DifficultyLevel:  difficultyFor(hours),
			SchedulingReason: recoveredReason,
		})
		clock = end
	}
	return tasks
}

// parseTaskLine accepts bullet, numbered and trailing-duration lines.
func parseTaskLine(line string) (string, float64, bool) {
	var body string
	switch {
	case dashTaskRe.MatchString(line):
		body = dashTaskRe.FindStringSubmatch(line)[1]
	case numberedTaskRe.MatchString(line):
		body = numberedTaskRe.FindStringSubmatch(line)[1]
	case trailingDurRe.MatchString(line):
		body = strings.TrimSpace(line)
	default:
		return "", 0, false
	}

	hours := defaultTaskHours
	if m := durationRe.FindStringSubmatchIndex(body); m != nil {
		if v, err := strconv.ParseFloat(body[m[2]:m[3]], 64); err == nil && v > 0 {
			hours = v
			if unit := strings.ToLower(body[m[4]:m[5]]); strings.HasPrefix(unit, "m") {
				hours = v / 60
			}
		}
		body = body[:m[0]]
	}

	desc := cleanLine(body)
	if len(desc) <= minTaskDescLen {
		return "", 0, false
	}
	return desc, hours, true
}

func difficultyFor(hours float64) domain.Difficulty {
	switch {
	case hours <= 1:
		return domain.DifficultySimple
	case hours <= 3:
		return domain.DifficultyModerate
	default:
		return domain.DifficultyAdvanced
	}
}

func syntheticTask(day, focus string) domain.TaskDescription {
	start := dayStartMinutes
	end := start + int(defaultTaskHours*60)
	return domain.TaskDescription{
		TaskDescription:  fmt.Sprintf("Complete %s objectives", day),
		FocusArea:        focus,
		StartTime:        formatClock(start),
		EndTime:          formatClock(end),
		DifficultyLevel:  difficultyFor(defaultTaskHours),
		SchedulingReason: "No tasks recognized for this day",
	}
}

func formatClock(minutes int) string {
	return time.Date(0, 1, 1, 0, minutes, 0, 0, time.UTC).Format("15:04")
}
