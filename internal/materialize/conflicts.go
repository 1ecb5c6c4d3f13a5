package materialize

import (
	"fmt"

	"github.com/alexanderramin/planora/internal/domain"
)

// Conflict is a task scheduled inside a fixed commitment window.
type Conflict struct {
	Task       domain.MaterializedTask
	Commitment domain.FixedCommitment
}

func (c Conflict) String() string {
	return fmt.Sprintf("conflict: week %d %s %q (%s-%s) overlaps %s (%s-%s)",
		c.Task.WeekNumber, c.Task.DayOfWeek, c.Task.Title, c.Task.StartTime, c.Task.EndTime,
		c.Commitment.Label, c.Commitment.Start, c.Commitment.End)
}

// Conflicts reports every task/commitment pair whose windows overlap on a
// day the commitment covers. Tasks without parseable times never conflict.
func Conflicts(tasks []domain.MaterializedTask, commitments []domain.FixedCommitment) []Conflict {
	var out []Conflict
	for _, t := range tasks {
		ts, okS := minuteOfDay(t.StartTime)
		te, okE := minuteOfDay(t.EndTime)
		if !okS || !okE || te <= ts {
			continue
		}
		for _, c := range commitments {
			if !c.AppliesTo(t.DayOfWeek) {
				continue
			}
			cs, okS := minuteOfDay(c.Start)
			ce, okE := minuteOfDay(c.End)
			if !okS || !okE {
				continue
			}
			if ts < ce && cs < te {
				out = append(out, Conflict{Task: t, Commitment: c})
			}
		}
	}
	return out
}

// Messages renders conflicts as warning strings.
func Messages(conflicts []Conflict) []string {
	out := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.String())
	}
	return out
}
