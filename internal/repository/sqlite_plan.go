package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planora/internal/db"
	"github.com/alexanderramin/planora/internal/domain"
)

const planColumns = `id, user_id, preference_id, month_year, ai_prompt, ai_response_raw, monthly_summary,
	raw_ai_response, extraction_confidence, extraction_notes, status, generated_at, confirmed_at`

const taskColumns = `t.id, t.plan_id, t.title, t.description, t.due_date, t.priority, t.category,
	t.estimated_hours, t.week_number, t.day_of_week, t.start_time, t.end_time, t.completed, t.completed_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database. Plans and
// their tasks live in one repo because they are only ever written together.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	query := `INSERT INTO plans (user_id, preference_id, month_year, ai_prompt, ai_response_raw,
		monthly_summary, raw_ai_response, extraction_confidence, extraction_notes, status,
		generated_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.UserID,
		nullableID(p.PreferenceID),
		p.MonthYear,
		p.AIPrompt,
		p.AIResponseRaw,
		p.MonthlySummary,
		p.RawAIResponse,
		p.ExtractionConfidence,
		p.ExtractionNotes,
		string(p.Status),
		formatTime(p.GeneratedAt),
		nullableTimeToString(p.ConfirmedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading plan id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, userID string, id int64) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id = ? ORDER BY generated_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// CreateTasks inserts tasks in order; seq preserves the materialization order.
func (r *SQLitePlanRepo) CreateTasks(ctx context.Context, planID int64, tasks []domain.MaterializedTask) ([]*domain.PlanTask, error) {
	query := `INSERT INTO plan_tasks (plan_id, seq, title, description, due_date, priority, category,
		estimated_hours, week_number, day_of_week, start_time, end_time, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`

	out := make([]*domain.PlanTask, 0, len(tasks))
	for i, t := range tasks {
		res, err := r.db.ExecContext(ctx, query,
			planID,
			i,
			t.Title,
			t.Description,
			t.DueDate.Format(dateLayout),
			string(t.Priority),
			t.Category,
			t.EstimatedHours,
			t.WeekNumber,
			t.DayOfWeek,
			t.StartTime,
			t.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting plan task %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading plan task id: %w", err)
		}
		out = append(out, &domain.PlanTask{ID: id, PlanID: planID, MaterializedTask: t})
	}
	return out, nil
}

func (r *SQLitePlanRepo) ListTasks(ctx context.Context, planID int64) ([]*domain.PlanTask, error) {
	query := `SELECT ` + taskColumns + ` FROM plan_tasks t WHERE t.plan_id = ? ORDER BY t.seq, t.id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.PlanTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLitePlanRepo) GetTask(ctx context.Context, userID string, taskID int64) (*domain.PlanTask, error) {
	query := `SELECT ` + taskColumns + ` FROM plan_tasks t
		JOIN plans p ON p.id = t.plan_id
		WHERE t.id = ? AND p.user_id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan task %d: %w", taskID, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLitePlanRepo) UpdateTaskCompletion(ctx context.Context, t *domain.PlanTask) error {
	res, err := r.db.ExecContext(ctx, `UPDATE plan_tasks SET completed = ?, completed_at = ? WHERE id = ?`,
		boolToInt(t.Completed),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan task %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan returns sql.ErrNoRows unwrapped so callers can map it.
func scanPlan(s rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var prefID sql.NullInt64
	var status, generatedAt string
	var confirmedAt sql.NullString

	err := s.Scan(&p.ID, &p.UserID, &prefID, &p.MonthYear, &p.AIPrompt, &p.AIResponseRaw,
		&p.MonthlySummary, &p.RawAIResponse, &p.ExtractionConfidence, &p.ExtractionNotes,
		&status, &generatedAt, &confirmedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.PreferenceID = idFromNull(prefID)
	p.Status = domain.PlanStatus(status)
	if p.GeneratedAt, err = parseTime(generatedAt, "generated_at"); err != nil {
		return nil, err
	}
	p.ConfirmedAt = parseNullableTime(confirmedAt, time.RFC3339)
	return &p, nil
}

func scanTask(s rowScanner) (*domain.PlanTask, error) {
	var t domain.PlanTask
	var dueDate, priority string
	var completed int
	var completedAt sql.NullString

	err := s.Scan(&t.ID, &t.PlanID, &t.Title, &t.Description, &dueDate, &priority, &t.Category,
		&t.EstimatedHours, &t.WeekNumber, &t.DayOfWeek, &t.StartTime, &t.EndTime, &completed, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan task: %w", err)
	}

	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	t.DueDate = due
	t.Priority = domain.Priority(priority)
	t.Completed = intToBool(completed)
	t.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	return &t, nil
}
