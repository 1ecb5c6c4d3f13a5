package intelligence

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planora/internal/domain"
	"github.com/alexanderramin/planora/internal/extract"
	"github.com/alexanderramin/planora/internal/llm"
)

// PlanDraft is the outcome of one model call: what was asked, what came
// back, and what could be recovered from it.
type PlanDraft struct {
	Prompt       string
	RawResponse  string
	Extraction   domain.ExtractionResult
	Usage        llm.Usage
	FinishReason string
}

// PlanDraftService asks the model for a monthly plan.
type PlanDraftService interface {
	Generate(ctx context.Context, pref domain.GoalPreference, monthYear string) (*PlanDraft, error)
}

type planDraftService struct {
	client    llm.StreamClient
	extractor *extract.Extractor
}

// NewPlanDraftService creates a PlanDraftService. A nil extractor uses the
// default strategy chain.
func NewPlanDraftService(client llm.StreamClient, extractor *extract.Extractor) PlanDraftService {
	if extractor == nil {
		extractor = extract.New()
	}
	return &planDraftService{client: client, extractor: extractor}
}

func (s *planDraftService) Generate(ctx context.Context, pref domain.GoalPreference, monthYear string) (*PlanDraft, error) {
	prompt := BuildPlanPrompt(pref, monthYear)

	comp, err := llm.Complete(ctx, s.client, llm.StreamRequest{
		Task: llm.TaskPlanGenerate,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: planSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm plan generation failed: %w", err)
	}

	return &PlanDraft{
		Prompt:       prompt,
		RawResponse:  comp.Text,
		Extraction:   s.extractor.Extract(comp.Text),
		Usage:        comp.Usage,
		FinishReason: comp.FinishReason,
	}, nil
}
