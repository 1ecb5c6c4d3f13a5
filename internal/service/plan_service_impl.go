package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/db"
	"github.com/alexanderramin/planora/internal/domain"
	"github.com/alexanderramin/planora/internal/extract"
	"github.com/alexanderramin/planora/internal/intelligence"
	"github.com/alexanderramin/planora/internal/materialize"
	"github.com/alexanderramin/planora/internal/repository"
	"github.com/google/uuid"
)

// DefaultDraftTTL is how long a generated draft stays confirmable.
const DefaultDraftTTL = 24 * time.Hour

const confirmedNote = "Draft confirmed and saved"

var errModelDisabled = errors.New("model is disabled; set PLANORA_LLM_ENABLED=true to generate plans")

// PlanServiceOptions tunes a PlanService. Zero values select defaults.
type PlanServiceOptions struct {
	DraftTTL time.Duration
	Now      func() time.Time
}

type planService struct {
	prefs    repository.PreferenceRepo
	drafts   repository.DraftRepo
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	drafter  intelligence.PlanDraftService
	ttl      time.Duration
	now      func() time.Time
	observer UseCaseObserver
}

// NewPlanService wires a PlanService. A nil drafter means the model is
// disabled: Generate fails but every other operation works.
func NewPlanService(
	prefs repository.PreferenceRepo,
	drafts repository.DraftRepo,
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	drafter intelligence.PlanDraftService,
	opts PlanServiceOptions,
	observers ...UseCaseObserver,
) PlanService {
	s := &planService{
		prefs:    prefs,
		drafts:   drafts,
		plans:    plans,
		uow:      uow,
		drafter:  drafter,
		ttl:      opts.DraftTTL,
		now:      opts.Now,
		observer: useCaseObserverOrNoop(observers),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultDraftTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// clock returns the current time in UTC at the precision drafts are stored with.
func (s *planService) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *planService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *planService) Generate(ctx context.Context, req contract.GenerateRequest) (resp *contract.GenerateResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user": req.UserID}
	defer func() { s.observe(ctx, UseCaseGenerate, startedAt, err, fields) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	now := s.clock()
	if req.Now != nil {
		now = req.Now.UTC().Truncate(time.Second)
	}

	// Inputs are persisted before the model call so a failed generation
	// never loses what the user typed.
	pref := &domain.GoalPreference{
		UserID:            req.UserID,
		GoalsText:         req.GoalsText,
		TaskComplexity:    req.TaskComplexity,
		FocusAreas:        req.FocusAreas,
		WeekendPreference: req.WeekendPreference,
		FixedCommitments:  req.FixedCommitments,
		CreatedAt:         now,
	}
	if err = s.prefs.Create(ctx, pref); err != nil {
		return nil, fmt.Errorf("%w: %w", contract.ErrSavePreferences, err)
	}
	fields["preference_id"] = pref.ID

	if s.drafter == nil {
		return nil, &contract.ModelError{Err: errModelDisabled}
	}

	monthYear := now.Format(domain.MonthYearLayout)
	var generated *intelligence.PlanDraft
	generated, err = s.drafter.Generate(ctx, *pref, monthYear)
	if err != nil {
		return nil, &contract.ModelError{Err: err}
	}

	result := generated.Extraction
	warnings := s.conflictWarnings(monthYear, result.StructuredData, pref.FixedCommitments)
	metadata := result.Metadata
	for _, w := range warnings {
		metadata.ExtractionNotes = appendNote(metadata.ExtractionNotes, w)
	}
	if metadata.Confidence < extract.ConfidencePattern {
		warnings = append(warnings, "The response could not be parsed; a default schedule was used")
	}

	draft := &domain.Draft{
		Key:              uuid.New().String(),
		UserID:           req.UserID,
		PlanData:         result.StructuredData,
		Metadata:         metadata,
		Prompt:           generated.Prompt,
		RawResponse:      generated.RawResponse,
		GoalPreferenceID: pref.ID,
		MonthYear:        monthYear,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	}
	if err = s.drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("%w: %w", contract.ErrSaveDraft, err)
	}

	fields["draft_key"] = draft.Key
	fields["confidence"] = metadata.Confidence
	fields["format"] = string(metadata.DetectedFormat)

	return &contract.GenerateResponse{
		DraftKey:     draft.Key,
		PlanData:     draft.PlanData,
		Metadata:     draft.Metadata,
		PreferenceID: pref.ID,
		MonthYear:    monthYear,
		GeneratedAt:  now,
		ExpiresAt:    draft.ExpiresAt,
		Warnings:     warnings,
	}, nil
}

// conflictWarnings flags tasks scheduled inside fixed commitments.
func (s *planService) conflictWarnings(monthYear string, data domain.StructuredResponse, commitments []domain.FixedCommitment) []string {
	if len(commitments) == 0 {
		return nil
	}
	start, err := materialize.MonthStart(monthYear)
	if err != nil {
		return nil
	}
	conflicts := materialize.Conflicts(materialize.Tasks(start, data.WeeklyBreakdown), commitments)
	if len(conflicts) == 0 {
		return nil
	}
	return materialize.Messages(conflicts)
}

func (s *planService) Confirm(ctx context.Context, userID, draftKey string) (resp *contract.ConfirmResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user": userID, "draft_key": draftKey}
	defer func() { s.observe(ctx, UseCaseConfirm, startedAt, err, fields) }()

	now := s.clock()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDrafts := repository.NewSQLiteDraftRepo(tx)
		txPlans := repository.NewSQLitePlanRepo(tx)

		draft, err := txDrafts.Get(ctx, userID, draftKey)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return contract.ErrDraftNotFound
			}
			return err
		}
		if draft.Expired(now) {
			return contract.ErrDraftNotFound
		}

		monthStart, err := materialize.MonthStart(draft.MonthYear)
		if err != nil {
			return fmt.Errorf("%w: %w", contract.ErrSavePlan, err)
		}
		tasks := materialize.Tasks(monthStart, draft.PlanData.WeeklyBreakdown)

		planJSON, err := json.Marshal(draft.PlanData)
		if err != nil {
			return fmt.Errorf("%w: encoding plan data: %w", contract.ErrSavePlan, err)
		}

		plan := &domain.Plan{
			UserID:               userID,
			PreferenceID:         draft.GoalPreferenceID,
			MonthYear:            draft.MonthYear,
			AIPrompt:             draft.Prompt,
			AIResponseRaw:        string(planJSON),
			MonthlySummary:       draft.PlanData.MonthlySummary,
			RawAIResponse:        draft.RawResponse,
			ExtractionConfidence: draft.Metadata.Confidence,
			ExtractionNotes:      appendNote(draft.Metadata.ExtractionNotes, confirmedNote),
			Status:               domain.PlanStatusConfirmed,
			GeneratedAt:          draft.CreatedAt,
			ConfirmedAt:          &now,
		}
		if err := txPlans.Create(ctx, plan); err != nil {
			return fmt.Errorf("%w: %w", contract.ErrSavePlan, err)
		}
		if _, err := txPlans.CreateTasks(ctx, plan.ID, tasks); err != nil {
			return fmt.Errorf("%w: %w", contract.ErrSavePlan, err)
		}

		deleted, err := txDrafts.Delete(ctx, userID, draftKey)
		if err != nil {
			return fmt.Errorf("%w: %w", contract.ErrSavePlan, err)
		}
		if !deleted {
			return contract.ErrDraftNotFound
		}

		resp = &contract.ConfirmResponse{
			PlanID:     plan.ID,
			MonthYear:  plan.MonthYear,
			TaskCount:  len(tasks),
			Confidence: plan.ExtractionConfidence,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["plan_id"] = resp.PlanID
	fields["task_count"] = resp.TaskCount
	return resp, nil
}

func (s *planService) GetDraft(ctx context.Context, userID, draftKey string) (*contract.DraftView, error) {
	draft, err := s.drafts.Get(ctx, userID, draftKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.ErrDraftNotFound
		}
		return nil, err
	}
	if draft.Expired(s.clock()) {
		return nil, contract.ErrDraftNotFound
	}
	return contract.NewDraftView(draft), nil
}

func (s *planService) GetLatestDraft(ctx context.Context, userID string) (*contract.DraftView, error) {
	draft, err := s.drafts.Latest(ctx, userID, s.clock())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.ErrDraftNotFound
		}
		return nil, err
	}
	return contract.NewDraftView(draft), nil
}

func (s *planService) DiscardDraft(ctx context.Context, userID, draftKey string) (deleted bool, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user": userID, "draft_key": draftKey}
	defer func() { s.observe(ctx, UseCaseDiscardDraft, startedAt, err, fields) }()

	deleted, err = s.drafts.Delete(ctx, userID, draftKey)
	fields["deleted"] = deleted
	return deleted, err
}

func (s *planService) PurgeExpiredDrafts(ctx context.Context, now time.Time) (n int64, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, UseCasePurgeDrafts, startedAt, err, fields) }()

	n, err = s.drafts.DeleteExpired(ctx, now.UTC())
	fields["purged"] = n
	return n, err
}

func (s *planService) GetPlan(ctx context.Context, userID string, planID int64) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, userID, planID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context, userID string) ([]*domain.Plan, error) {
	return s.plans.ListByUser(ctx, userID)
}

func (s *planService) ListTasks(ctx context.Context, userID string, planID int64) ([]*domain.PlanTask, error) {
	if _, err := s.plans.GetByID(ctx, userID, planID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.plans.ListTasks(ctx, planID)
}

// SetTaskCompleted is the only change a confirmed plan accepts.
func (s *planService) SetTaskCompleted(ctx context.Context, userID string, taskID int64, done bool) (task *domain.PlanTask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user": userID, "task_id": taskID, "done": done}
	defer func() { s.observe(ctx, UseCaseCompleteTask, startedAt, err, fields) }()

	now := s.clock()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		t, err := txPlans.GetTask(ctx, userID, taskID)
		if err != nil {
			return mapNotFound(err)
		}
		if t.Completed == done {
			task = t
			return nil
		}
		t.SetCompleted(done, now)
		if err := txPlans.UpdateTaskCompletion(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *planService) GetPreference(ctx context.Context, userID string, id int64) (*domain.GoalPreference, error) {
	pref, err := s.prefs.GetByID(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return pref, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", contract.ErrNotFound, err)
	}
	return err
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "; " + note
}
