package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// CourseUniqueConstraint is the compound natural-key constraint on the
// courses table. The store, not application code, enforces that no two
// courses share (term_code, subject, catalog_number).
const CourseUniqueConstraint = "courses_term_subject_catalog_key"

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// ExistsByKey reports whether a course with the given natural key is
// already persisted.
func (r *CourseRepository) ExistsByKey(ctx context.Context, key models.CourseKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM courses
			WHERE term_code = $1 AND subject = $2 AND catalog_number = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, key.TermCode, key.Subject, key.CatalogNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}

	return exists, nil
}

// Upsert writes a course under its natural key in a single atomic
// statement: insert when the key is new, full replace of the document
// fields when it already exists. The course's ID is filled in either
// way.
func (r *CourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	attributes, sections, discussions, err := marshalCourseDocs(course)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (
			term_code, subject, catalog_number, title, units,
			attributes, requirement_designation, sections, discussions
		)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8::jsonb, $9::jsonb)
		ON CONFLICT ON CONSTRAINT courses_term_subject_catalog_key
		DO UPDATE SET
			title = EXCLUDED.title,
			units = EXCLUDED.units,
			attributes = EXCLUDED.attributes,
			requirement_designation = EXCLUDED.requirement_designation,
			sections = EXCLUDED.sections,
			discussions = EXCLUDED.discussions,
			updated_at = now()
		RETURNING id
	`

	err = r.db.QueryRow(ctx, query,
		course.TermCode,
		course.Subject,
		course.CatalogNumber,
		course.Title,
		course.Units,
		attributes,
		course.RequirementDesignation,
		sections,
		discussions,
	).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("error upserting course: %w", err)
	}

	return nil
}

// DeleteByTermSubject removes every persisted course for a (term,
// subject) pair and returns how many rows went away. This is the
// destructive pre-step of replace mode; nothing else calls it.
func (r *CourseRepository) DeleteByTermSubject(ctx context.Context, termCode, subject string) (int64, error) {
	query := `
		DELETE FROM courses
		WHERE term_code = $1 AND subject = $2
	`

	result, err := r.db.Exec(ctx, query, termCode, subject)
	if err != nil {
		return 0, fmt.Errorf("error deleting courses for %s %s: %w", termCode, subject, err)
	}

	return result.RowsAffected(), nil
}

// GetByKey retrieves a full course document by its natural key.
func (r *CourseRepository) GetByKey(ctx context.Context, key models.CourseKey) (*models.Course, error) {
	query := `
		SELECT id, term_code, subject, catalog_number, title, units,
		       attributes, requirement_designation, sections, discussions,
		       created_at, updated_at
		FROM courses
		WHERE term_code = $1 AND subject = $2 AND catalog_number = $3
	`

	row := r.db.QueryRow(ctx, query, key.TermCode, key.Subject, key.CatalogNumber)
	course, err := scanCourse(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// List retrieves course summaries with optional term, subject and text
// filters, newest catalog order first within a subject.
func (r *CourseRepository) List(ctx context.Context, termCode, subject, search string, page, pageSize int) ([]models.CourseSummary, int64, error) {
	query := squirrel.Select(
		"id", "term_code", "subject", "catalog_number", "title", "units",
		"jsonb_array_length(sections) + jsonb_array_length(discussions) AS section_count",
	).
		From("courses").
		OrderBy("term_code DESC", "subject ASC", "catalog_number ASC").
		PlaceholderFormat(squirrel.Dollar)

	if termCode != "" {
		query = query.Where("term_code = ?", termCode)
	}
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(title ILIKE ? OR catalog_number ILIKE ?)", pattern, pattern)
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

	var summaries []models.CourseSummary
	var total int64

	for rows.Next() {
		var summary models.CourseSummary
		err := rows.Scan(
			&summary.ID,
			&summary.TermCode,
			&summary.Subject,
			&summary.CatalogNumber,
			&summary.Title,
			&summary.Units,
			&summary.SectionCount,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// ListTerms returns the distinct terms present in the store with their
// course counts, newest first.
func (r *CourseRepository) ListTerms(ctx context.Context) ([]models.TermSummary, error) {
	query := `
		SELECT term_code, COUNT(*) AS course_count
		FROM courses
		GROUP BY term_code
		ORDER BY term_code DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	defer rows.Close()

	var terms []models.TermSummary
	for rows.Next() {
		var term models.TermSummary
		if err := rows.Scan(&term.TermCode, &term.CourseCount); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}

// ListSubjectsByTerm returns the subjects of one term with their course
// counts.
func (r *CourseRepository) ListSubjectsByTerm(ctx context.Context, termCode string) ([]models.SubjectSummary, error) {
	query := `
		SELECT subject, COUNT(*) AS course_count
		FROM courses
		WHERE term_code = $1
		GROUP BY subject
		ORDER BY subject ASC
	`

	rows, err := r.db.Query(ctx, query, termCode)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.SubjectSummary
	for rows.Next() {
		var subject models.SubjectSummary
		if err := rows.Scan(&subject.Subject, &subject.CourseCount); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// marshalCourseDocs serializes the JSONB columns of a course row.
// Empty collections serialize as [] rather than null so consumers can
// always range over them.
func marshalCourseDocs(course *models.Course) (attributes, sections, discussions []byte, err error) {
	attributes, err = json.Marshal(emptyIfNilStrings(course.Attributes))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error marshaling attributes: %w", err)
	}
	sections, err = json.Marshal(emptyIfNilSections(course.Sections))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error marshaling sections: %w", err)
	}
	discussions, err = json.Marshal(emptyIfNilSections(course.Discussions))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error marshaling discussions: %w", err)
	}
	return attributes, sections, discussions, nil
}

func emptyIfNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilSections(sections []models.CourseSection) []models.CourseSection {
	if sections == nil {
		return []models.CourseSection{}
	}
	return sections
}

// scanCourse reads one full course row, including its JSONB documents.
func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var attributesJSON, sectionsJSON, discussionsJSON []byte

	err := row.Scan(
		&course.ID,
		&course.TermCode,
		&course.Subject,
		&course.CatalogNumber,
		&course.Title,
		&course.Units,
		&attributesJSON,
		&course.RequirementDesignation,
		&sectionsJSON,
		&discussionsJSON,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(attributesJSON, &course.Attributes); err != nil {
		return nil, fmt.Errorf("error decoding attributes: %w", err)
	}
	if err := json.Unmarshal(sectionsJSON, &course.Sections); err != nil {
		return nil, fmt.Errorf("error decoding sections: %w", err)
	}
	if err := json.Unmarshal(discussionsJSON, &course.Discussions); err != nil {
		return nil, fmt.Errorf("error decoding discussions: %w", err)
	}

	return &course, nil
}
