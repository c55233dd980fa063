package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// SyncRunRepository handles database operations for sync run history
type SyncRunRepository struct {
	db *pgxpool.Pool
}

// NewSyncRunRepository creates a new sync run repository
func NewSyncRunRepository(db *pgxpool.Pool) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a freshly started run
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	errorsJSON, err := marshalRunErrors(run.Errors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_runs (
			id, term_code, subject, replace_existing, status,
			inserted, updated, failed, skipped, errors, message, started_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12)
	`

	_, err = r.db.Exec(ctx, query,
		run.ID,
		run.TermCode,
		run.Subject,
		run.ReplaceExisting,
		run.Status,
		run.Inserted,
		run.Updated,
		run.Failed,
		run.Skipped,
		errorsJSON,
		run.Message,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating sync run: %w", err)
	}

	return nil
}

// Update persists the current state of a run
func (r *SyncRunRepository) Update(ctx context.Context, run *models.SyncRun) error {
	errorsJSON, err := marshalRunErrors(run.Errors)
	if err != nil {
		return err
	}

	query := `
		UPDATE sync_runs
		SET status = $2, inserted = $3, updated = $4, failed = $5, skipped = $6,
		    errors = $7::jsonb, message = $8, finished_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		run.ID,
		run.Status,
		run.Inserted,
		run.Updated,
		run.Failed,
		run.Skipped,
		errorsJSON,
		run.Message,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating sync run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}

// GetByID retrieves one run, nil when absent
func (r *SyncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	query := `
		SELECT id, term_code, subject, replace_existing, status,
		       inserted, updated, failed, skipped, errors, message,
		       started_at, finished_at
		FROM sync_runs
		WHERE id = $1
	`

	run, err := scanSyncRun(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving sync run: %w", err)
	}

	return run, nil
}

// List retrieves runs newest first, optionally filtered by term
func (r *SyncRunRepository) List(ctx context.Context, termCode string, page, pageSize int) ([]models.SyncRun, int64, error) {
	query := squirrel.Select(
		"id", "term_code", "subject", "replace_existing", "status",
		"inserted", "updated", "failed", "skipped", "errors", "message",
		"started_at", "finished_at",
	).
		From("sync_runs").
		OrderBy("started_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if termCode != "" {
		query = query.Where("term_code = ?", termCode)
	}

	offset := (page - 1) * pageSize
	query = query.Limit(uint64(pageSize)).Offset(uint64(offset))

	countQuery := query.Column("COUNT(*) OVER()")
	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	var total int64

	for rows.Next() {
		var run models.SyncRun
		var errorsJSON []byte
		err := rows.Scan(
			&run.ID,
			&run.TermCode,
			&run.Subject,
			&run.ReplaceExisting,
			&run.Status,
			&run.Inserted,
			&run.Updated,
			&run.Failed,
			&run.Skipped,
			&errorsJSON,
			&run.Message,
			&run.StartedAt,
			&run.FinishedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		if err := json.Unmarshal(errorsJSON, &run.Errors); err != nil {
			return nil, 0, fmt.Errorf("error decoding run errors: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

func marshalRunErrors(errors []models.CourseError) ([]byte, error) {
	if errors == nil {
		errors = []models.CourseError{}
	}
	data, err := json.Marshal(errors)
	if err != nil {
		return nil, fmt.Errorf("error marshaling run errors: %w", err)
	}
	return data, nil
}

func scanSyncRun(row pgx.Row) (*models.SyncRun, error) {
	var run models.SyncRun
	var errorsJSON []byte

	err := row.Scan(
		&run.ID,
		&run.TermCode,
		&run.Subject,
		&run.ReplaceExisting,
		&run.Status,
		&run.Inserted,
		&run.Updated,
		&run.Failed,
		&run.Skipped,
		&errorsJSON,
		&run.Message,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(errorsJSON, &run.Errors); err != nil {
		return nil, fmt.Errorf("error decoding run errors: %w", err)
	}

	return &run, nil
}
