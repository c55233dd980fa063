package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// SubjectRepository handles database operations for the subject directory
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a subject directory entry
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (code, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, subject.Code, subject.Name).Scan(&subject.ID)
	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetAll retrieves the full subject directory ordered by code
func (r *SubjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	query := `
		SELECT id, code, name
		FROM subjects
		ORDER BY code ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Code, &subject.Name); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// GetByCode retrieves one subject by its code, nil when absent
func (r *SubjectRepository) GetByCode(ctx context.Context, code string) (*models.Subject, error) {
	query := `
		SELECT id, code, name
		FROM subjects
		WHERE code = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, code).Scan(&subject.ID, &subject.Code, &subject.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}
