package service

import (
	"context"
	"time"

	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/domain"
)

// PlanService generates monthly plan drafts and turns confirmed drafts into
// permanent plans with dated tasks.
type PlanService interface {
	// Generate saves the planning inputs, asks the model for a plan and
	// stores the recovered structure as a draft.
	Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error)

	// Confirm converts a draft into a plan and its tasks in one transaction.
	Confirm(ctx context.Context, userID, draftKey string) (*contract.ConfirmResponse, error)

	GetDraft(ctx context.Context, userID, draftKey string) (*contract.DraftView, error)
	GetLatestDraft(ctx context.Context, userID string) (*contract.DraftView, error)
	DiscardDraft(ctx context.Context, userID, draftKey string) (bool, error)
	PurgeExpiredDrafts(ctx context.Context, now time.Time) (int64, error)

	GetPlan(ctx context.Context, userID string, planID int64) (*domain.Plan, error)
	ListPlans(ctx context.Context, userID string) ([]*domain.Plan, error)
	ListTasks(ctx context.Context, userID string, planID int64) ([]*domain.PlanTask, error)
	SetTaskCompleted(ctx context.Context, userID string, taskID int64, done bool) (*domain.PlanTask, error)

	GetPreference(ctx context.Context, userID string, id int64) (*domain.GoalPreference, error)
}

// DraftPurger is the slice of PlanService the janitor needs.
type DraftPurger interface {
	PurgeExpiredDrafts(ctx context.Context, now time.Time) (int64, error)
}
