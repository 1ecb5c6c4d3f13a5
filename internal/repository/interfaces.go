package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/planora/internal/domain"
)

type PreferenceRepo interface {
	Create(ctx context.Context, p *domain.GoalPreference) error
	GetByID(ctx context.Context, userID string, id int64) (*domain.GoalPreference, error)
}

// DraftRepo stores drafts. Get returns expired drafts too; callers decide
// what expiry means. Latest only considers drafts still valid at now.
type DraftRepo interface {
	Create(ctx context.Context, d *domain.Draft) error
	Get(ctx context.Context, userID, key string) (*domain.Draft, error)
	Latest(ctx context.Context, userID string, now time.Time) (*domain.Draft, error)
	Delete(ctx context.Context, userID, key string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, userID string, id int64) (*domain.Plan, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Plan, error)
	CreateTasks(ctx context.Context, planID int64, tasks []domain.MaterializedTask) ([]*domain.PlanTask, error)
	ListTasks(ctx context.Context, planID int64) ([]*domain.PlanTask, error)
	GetTask(ctx context.Context, userID string, taskID int64) (*domain.PlanTask, error)
	UpdateTaskCompletion(ctx context.Context, t *domain.PlanTask) error
}
