package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/domain"
)

// FormatGenerated renders a freshly generated draft with the confirm hint.
func FormatGenerated(resp *contract.GenerateResponse, now time.Time) string {
	var b strings.Builder
	b.WriteString(draftHeader(resp.DraftKey, resp.MonthYear, resp.Metadata, resp.ExpiresAt, now))
	b.WriteString(renderResponse(resp.PlanData))
	if len(resp.Warnings) > 0 {
		b.WriteString("\n" + FormatWarnings(resp.Warnings))
	}
	b.WriteString("\n" + Dim("Confirm with: ") + StyleFg.Render("planora confirm "+resp.DraftKey))
	return RenderBox("Plan draft", b.String())
}

// FormatDraft renders a stored draft.
func FormatDraft(view *contract.DraftView, now time.Time) string {
	var b strings.Builder
	b.WriteString(draftHeader(view.Key, view.MonthYear, view.Metadata, view.ExpiresAt, now))
	b.WriteString(renderResponse(view.PlanData))
	if notes := view.Metadata.ExtractionNotes; notes != "" {
		b.WriteString("\n" + Dim("Notes: "+notes) + "\n")
	}
	return RenderBox("Plan draft", b.String())
}

func draftHeader(key, monthYear string, meta domain.ExtractionMetadata, expiresAt, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(MonthLabel(monthYear)), ConfidenceBadge(meta.Confidence, meta.DetectedFormat))
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("KEY  "), key)
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("VALID"), ExpiresIn(expiresAt, now))
	return b.String()
}

// renderResponse renders the summary and each week's schedule.
func renderResponse(data domain.StructuredResponse) string {
	var b strings.Builder
	if data.MonthlySummary != "" {
		b.WriteString("\n" + StyleFg.Render(data.MonthlySummary) + "\n")
	}
	for _, w := range data.WeeklyBreakdown {
		b.WriteString("\n" + renderWeek(w))
	}
	if len(data.PersonalizationNotes) > 0 {
		b.WriteString("\n" + Header("Personalization") + "\n")
		for _, n := range data.PersonalizationNotes {
			b.WriteString("  • " + n + "\n")
		}
	}
	return b.String()
}

func renderWeek(w domain.WeeklyBreakdown) string {
	var b strings.Builder
	title := fmt.Sprintf("Week %d", w.Week)
	if w.Focus != "" {
		title += " · " + w.Focus
	}
	b.WriteString(Header(title) + "\n")
	for _, g := range w.Goals {
		b.WriteString("  " + StylePurple.Render("◆") + " " + g + "\n")
	}

	rest := 0
	for _, day := range domain.Weekdays {
		tasks := w.DailyTasks[day]
		if len(tasks) == 0 {
			rest++
			continue
		}
		b.WriteString("  " + StyleBlue.Render(day) + "\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "    %s  %s  %s\n",
				Dim(t.StartTime+"-"+t.EndTime),
				t.TaskDescription,
				DifficultyLabel(t.DifficultyLevel))
		}
	}
	if rest > 0 {
		b.WriteString("  " + Dim(fmt.Sprintf("%d rest day(s)", rest)) + "\n")
	}
	return b.String()
}

// FormatWarnings lists warnings in yellow.
func FormatWarnings(warnings []string) string {
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("Warnings (%d):", len(warnings))) + "\n")
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("  ! ") + w + "\n")
	}
	return b.String()
}

// FormatExtraction renders the outcome of running the extractor on raw text.
func FormatExtraction(res domain.ExtractionResult) string {
	var b strings.Builder
	meta := res.Metadata
	fmt.Fprintf(&b, "%s  %s\n", Bold("Extraction"), ConfidenceBadge(meta.Confidence, meta.DetectedFormat))
	fmt.Fprintf(&b, "  %s  %d week(s), %d task(s)\n", StyleDim.Render("FOUND "), len(res.StructuredData.WeeklyBreakdown), countTasks(res.StructuredData))
	if meta.ExtractionNotes != "" {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("NOTES "), meta.ExtractionNotes)
	}
	if len(meta.MissingFields) > 0 {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("MISSING"), StyleYellow.Render(strings.Join(meta.MissingFields, ", ")))
	}
	for _, e := range meta.ParsingErrors {
		b.WriteString("  " + StyleRed.Render("✖ ") + e + "\n")
	}
	b.WriteString(renderResponse(res.StructuredData))
	return RenderBox("", b.String())
}

func countTasks(data domain.StructuredResponse) int {
	n := 0
	for _, w := range data.WeeklyBreakdown {
		n += w.TaskCount()
	}
	return n
}

// FormatConfirmed renders the result of confirming a draft.
func FormatConfirmed(resp *contract.ConfirmResponse) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("Plan saved!") + "\n\n")
	fmt.Fprintf(&b, "  %s  #%d  %s\n", StyleDim.Render("PLAN "), resp.PlanID, MonthLabel(resp.MonthYear))
	fmt.Fprintf(&b, "  %s  %d\n", StyleDim.Render("TASKS"), resp.TaskCount)
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("CONF "), ConfidenceBadge(resp.Confidence, ""))
	return RenderBox("", b.String())
}

// FormatPlanList renders plans with their completion progress.
func FormatPlanList(plans []*domain.Plan, progress map[int64]contract.TaskProgress) string {
	if len(plans) == 0 {
		return Dim("No plans yet. Run: planora generate") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		pr := progress[p.ID]
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			MonthLabel(p.MonthYear),
			PlanStatusPill(p.Status),
			ConfidenceBadge(p.ExtractionConfidence, ""),
			RenderCount(pr.Completed, pr.Total, 10),
			Truncate(p.MonthlySummary, 40),
		})
	}
	return RenderTable([]string{"ID", "MONTH", "STATUS", "CONFIDENCE", "PROGRESS", "SUMMARY"}, rows)
}

// FormatPlan renders a plan and its tasks.
func FormatPlan(p *domain.Plan, tasks []*domain.PlanTask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(fmt.Sprintf("#%d %s", p.ID, MonthLabel(p.MonthYear))), PlanStatusPill(p.Status))
	if p.MonthlySummary != "" {
		b.WriteString("\n" + StyleFg.Render(p.MonthlySummary) + "\n")
	}
	pr := contract.NewTaskProgress(tasks)
	fmt.Fprintf(&b, "\n  %s  %s\n", StyleDim.Render("PROGRESS"), RenderCount(pr.Completed, pr.Total, 20))
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("CONF    "), ConfidenceBadge(p.ExtractionConfidence, ""))
	if p.ConfirmedAt != nil {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("SAVED   "), p.ConfirmedAt.Format("Jan 2, 2006 15:04"))
	}
	if len(tasks) > 0 {
		b.WriteString("\n" + FormatTasks(tasks))
	}
	return RenderBox("Plan", b.String())
}

// FormatTasks renders a task table in due order.
func FormatTasks(tasks []*domain.PlanTask) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			CheckMark(t.Completed),
			DueDate(t.DueDate),
			Dim(t.StartTime + "-" + t.EndTime),
			Truncate(t.Title, 48),
			PriorityPill(t.Priority),
			FormatHours(t.EstimatedHours),
		})
	}
	return RenderTable([]string{"ID", "", "DUE", "TIME", "TASK", "PRIORITY", "EST"}, rows)
}
