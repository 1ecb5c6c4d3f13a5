package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planora/internal/db"
	"github.com/alexanderramin/planora/internal/domain"
)

// SQLitePreferenceRepo implements PreferenceRepo using a SQLite database.
type SQLitePreferenceRepo struct {
	db db.DBTX
}

// NewSQLitePreferenceRepo creates a new SQLitePreferenceRepo.
func NewSQLitePreferenceRepo(conn db.DBTX) *SQLitePreferenceRepo {
	return &SQLitePreferenceRepo{db: conn}
}

func (r *SQLitePreferenceRepo) Create(ctx context.Context, p *domain.GoalPreference) error {
	focus, err := toJSON(nonNilStrings(p.FocusAreas), "focus_areas")
	if err != nil {
		return err
	}
	commitments := p.FixedCommitments
	if commitments == nil {
		commitments = []domain.FixedCommitment{}
	}
	fixed, err := toJSON(commitments, "fixed_commitments")
	if err != nil {
		return err
	}

	query := `INSERT INTO goal_preferences (user_id, goals_text, task_complexity, focus_areas,
		weekend_preference, fixed_commitments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.GoalsText,
		string(p.TaskComplexity),
		focus,
		p.WeekendPreference,
		fixed,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal preference: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading goal preference id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLitePreferenceRepo) GetByID(ctx context.Context, userID string, id int64) (*domain.GoalPreference, error) {
	query := `SELECT id, user_id, goals_text, task_complexity, focus_areas, weekend_preference,
		fixed_commitments, created_at
		FROM goal_preferences WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, userID)

	var p domain.GoalPreference
	var complexity, focus, fixed, createdAt string
	err := row.Scan(&p.ID, &p.UserID, &p.GoalsText, &complexity, &focus, &p.WeekendPreference, &fixed, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal preference %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning goal preference: %w", err)
	}

	p.TaskComplexity = domain.Complexity(complexity)
	if err := fromJSON(focus, "focus_areas", &p.FocusAreas); err != nil {
		return nil, err
	}
	if err := fromJSON(fixed, "fixed_commitments", &p.FixedCommitments); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
