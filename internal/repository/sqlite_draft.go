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

const draftColumns = `draft_key, user_id, plan_data, metadata, prompt, raw_response,
	goal_preference_id, month_year, created_at, expires_at`

// SQLiteDraftRepo implements DraftRepo using a SQLite database.
type SQLiteDraftRepo struct {
	db db.DBTX
}

// NewSQLiteDraftRepo creates a new SQLiteDraftRepo.
func NewSQLiteDraftRepo(conn db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: conn}
}

func (r *SQLiteDraftRepo) Create(ctx context.Context, d *domain.Draft) error {
	planData, err := toJSON(d.PlanData, "plan_data")
	if err != nil {
		return err
	}
	metadata, err := toJSON(d.Metadata, "metadata")
	if err != nil {
		return err
	}

	query := `INSERT INTO plan_drafts (` + draftColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		d.Key,
		d.UserID,
		planData,
		metadata,
		d.Prompt,
		d.RawResponse,
		nullableID(d.GoalPreferenceID),
		d.MonthYear,
		formatTime(d.CreatedAt),
		formatTime(d.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan draft: %w", err)
	}
	return nil
}

func (r *SQLiteDraftRepo) Get(ctx context.Context, userID, key string) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM plan_drafts WHERE draft_key = ? AND user_id = ?`
	return r.scanDraft(r.db.QueryRowContext(ctx, query, key, userID))
}

func (r *SQLiteDraftRepo) Latest(ctx context.Context, userID string, now time.Time) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM plan_drafts
		WHERE user_id = ? AND expires_at >= ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`
	return r.scanDraft(r.db.QueryRowContext(ctx, query, userID, formatTime(now)))
}

func (r *SQLiteDraftRepo) Delete(ctx context.Context, userID, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_drafts WHERE draft_key = ? AND user_id = ?`, key, userID)
	if err != nil {
		return false, fmt.Errorf("deleting plan draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading deleted draft count: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteDraftRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_drafts WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("purging expired drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading purged draft count: %w", err)
	}
	return n, nil
}

func (r *SQLiteDraftRepo) scanDraft(row *sql.Row) (*domain.Draft, error) {
	var d domain.Draft
	var planData, metadata, createdAt, expiresAt string
	var prefID sql.NullInt64

	err := row.Scan(&d.Key, &d.UserID, &planData, &metadata, &d.Prompt, &d.RawResponse,
		&prefID, &d.MonthYear, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan draft: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan draft: %w", err)
	}

	d.GoalPreferenceID = idFromNull(prefID)
	if err := fromJSON(planData, "plan_data", &d.PlanData); err != nil {
		return nil, err
	}
	if err := fromJSON(metadata, "metadata", &d.Metadata); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if d.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}
	return &d, nil
}
