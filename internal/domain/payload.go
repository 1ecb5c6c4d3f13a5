package domain

// TaskDescription is a single scheduled task as described by the model.
// StartTime and EndTime are either ISO-8601 timestamps or bare HH:MM clocks.
type TaskDescription struct {
	TaskDescription  string     `json:"task_description"`
	FocusArea        string     `json:"focus_area"`
	StartTime        string     `json:"start_time"`
	EndTime          string     `json:"end_time"`
	DifficultyLevel  Difficulty `json:"difficulty_level"`
	SchedulingReason string     `json:"scheduling_reason"`
}

// WeeklyBreakdown groups a week's goals and per-day tasks. DailyTasks is keyed
// by canonical day name.
type WeeklyBreakdown struct {
	Week       int                          `json:"week"`
	Focus      string                       `json:"focus,omitempty"`
	Goals      []string                     `json:"goals"`
	DailyTasks map[string][]TaskDescription `json:"daily_tasks"`
}

// EnsureAllDays adds an empty task list for every canonical day that is
// missing from DailyTasks.
func (w *WeeklyBreakdown) EnsureAllDays() {
	if w.DailyTasks == nil {
		w.DailyTasks = make(map[string][]TaskDescription, len(Weekdays))
	}
	for _, d := range Weekdays {
		if _, ok := w.DailyTasks[d]; !ok {
			w.DailyTasks[d] = []TaskDescription{}
		}
	}
	if w.Goals == nil {
		w.Goals = []string{}
	}
}

// TaskCount returns the number of tasks across all days.
func (w WeeklyBreakdown) TaskCount() int {
	n := 0
	for _, tasks := range w.DailyTasks {
		n += len(tasks)
	}
	return n
}

// StructuredResponse is the partial plan recovered from model output. Any
// field may be absent.
type StructuredResponse struct {
	MonthlySummary       string            `json:"monthly_summary,omitempty"`
	WeeklyBreakdown      []WeeklyBreakdown `json:"weekly_breakdown,omitempty"`
	PersonalizationNotes []string          `json:"personalization_notes,omitempty"`
}

// IsEmpty reports whether no field was recovered.
func (r StructuredResponse) IsEmpty() bool {
	return r.MonthlySummary == "" && len(r.WeeklyBreakdown) == 0 && len(r.PersonalizationNotes) == 0
}

// ExtractionMetadata describes how a StructuredResponse was recovered.
type ExtractionMetadata struct {
	Confidence      int            `json:"confidence"`
	DetectedFormat  DetectedFormat `json:"detected_format"`
	ExtractionNotes string         `json:"extraction_notes"`
	ParsingErrors   []string       `json:"parsing_errors"`
	MissingFields   []string       `json:"missing_fields"`
}

// ExtractionResult is the full output of one extraction call.
type ExtractionResult struct {
	RawContent     string             `json:"raw_content"`
	StructuredData StructuredResponse `json:"structured_data"`
	Metadata       ExtractionMetadata `json:"metadata"`
}
