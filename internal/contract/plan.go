package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/domain"
)

type GenerateRequest struct {
	UserID            string
	GoalsText         string
	TaskComplexity    domain.Complexity
	FocusAreas        []string
	WeekendPreference string
	FixedCommitments  []domain.FixedCommitment
	Now               *time.Time
}

func NewGenerateRequest(userID, goals string) GenerateRequest {
	return GenerateRequest{
		UserID:         userID,
		GoalsText:      goals,
		TaskComplexity: domain.ComplexityBalanced,
	}
}

// Validate normalizes complexity and commitment day names in place and
// rejects input that cannot be planned.
func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return InvalidInput("user is required")
	}
	if strings.TrimSpace(r.GoalsText) == "" {
		return InvalidInput("goals text is required")
	}
	c, ok := domain.ParseComplexity(string(r.TaskComplexity))
	if !ok {
		return InvalidInput("task complexity must be one of Simple, Balanced, Ambitious; got %q", r.TaskComplexity)
	}
	r.TaskComplexity = c

	for i := range r.FixedCommitments {
		if err := validateCommitment(&r.FixedCommitments[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateCommitment(c *domain.FixedCommitment) error {
	c.Label = strings.TrimSpace(c.Label)
	if c.Label == "" {
		return InvalidInput("fixed commitment label is required")
	}
	start, err := time.Parse("15:04", strings.TrimSpace(c.Start))
	if err != nil {
		return InvalidInput("commitment %q: start %q must be HH:MM", c.Label, c.Start)
	}
	end, err := time.Parse("15:04", strings.TrimSpace(c.End))
	if err != nil {
		return InvalidInput("commitment %q: end %q must be HH:MM", c.Label, c.End)
	}
	if !start.Before(end) {
		return InvalidInput("commitment %q: start must be before end", c.Label)
	}
	c.Start, c.End = start.Format("15:04"), end.Format("15:04")

	for j, d := range c.Days {
		day := domain.CanonicalDay(d)
		if day == "" {
			return InvalidInput("commitment %q: unknown day %q", c.Label, d)
		}
		c.Days[j] = day
	}
	return nil
}

// ParseCommitment reads the "Label|Mon,Tue|09:00-17:00" form. The days
// segment may be empty, meaning every day.
func ParseCommitment(s string) (domain.FixedCommitment, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return domain.FixedCommitment{}, InvalidInput("commitment %q must look like Label|Mon,Tue|09:00-17:00", s)
	}
	window := strings.SplitN(strings.TrimSpace(parts[2]), "-", 2)
	if len(window) != 2 {
		return domain.FixedCommitment{}, InvalidInput("commitment %q: window must be HH:MM-HH:MM", s)
	}
	c := domain.FixedCommitment{
		Label: strings.TrimSpace(parts[0]),
		Start: strings.TrimSpace(window[0]),
		End:   strings.TrimSpace(window[1]),
	}
	for _, d := range strings.Split(parts[1], ",") {
		if d = strings.TrimSpace(d); d != "" {
			c.Days = append(c.Days, d)
		}
	}
	if err := validateCommitment(&c); err != nil {
		return domain.FixedCommitment{}, err
	}
	return c, nil
}

type GenerateResponse struct {
	DraftKey     string
	PlanData     domain.StructuredResponse
	Metadata     domain.ExtractionMetadata
	PreferenceID int64
	MonthYear    string
	GeneratedAt  time.Time
	ExpiresAt    time.Time
	Warnings     []string
}

type ConfirmResponse struct {
	PlanID     int64
	MonthYear  string
	TaskCount  int
	Confidence int
}

// DraftView is a draft as shown to its owner.
type DraftView struct {
	Key       string
	PlanData  domain.StructuredResponse
	Metadata  domain.ExtractionMetadata
	MonthYear string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewDraftView(d *domain.Draft) *DraftView {
	return &DraftView{
		Key:       d.Key,
		PlanData:  d.PlanData,
		Metadata:  d.Metadata,
		MonthYear: d.MonthYear,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}

// TaskProgress summarizes completion across a plan's tasks.
type TaskProgress struct {
	Total     int
	Completed int
}

func (p TaskProgress) String() string {
	return fmt.Sprintf("%d/%d", p.Completed, p.Total)
}

func NewTaskProgress(tasks []*domain.PlanTask) TaskProgress {
	p := TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}
