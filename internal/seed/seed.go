package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/jdiamond4/CourseSearch/internal/app/models"
	appRepos "github.com/jdiamond4/CourseSearch/internal/app/repositories"
	"github.com/jdiamond4/CourseSearch/internal/pkg/dberrors"
)

// defaultSubjects is the directory a fresh install starts from. A term-wide
// sync with no explicit subject list walks exactly these codes.
var defaultSubjects = []appModels.Subject{
	{Code: "APMA", Name: "Applied Mathematics"},
	{Code: "ARTH", Name: "History of Art"},
	{Code: "ASTR", Name: "Astronomy"},
	{Code: "BIOL", Name: "Biology"},
	{Code: "CHEM", Name: "Chemistry"},
	{Code: "COMM", Name: "Commerce"},
	{Code: "CS", Name: "Computer Science"},
	{Code: "ECE", Name: "Electrical and Computer Engineering"},
	{Code: "ECON", Name: "Economics"},
	{Code: "ENGL", Name: "English"},
	{Code: "ENGR", Name: "Engineering"},
	{Code: "FREN", Name: "French"},
	{Code: "HIST", Name: "History"},
	{Code: "MAE", Name: "Mechanical and Aerospace Engineering"},
	{Code: "MATH", Name: "Mathematics"},
	{Code: "MUSI", Name: "Music"},
	{Code: "PHIL", Name: "Philosophy"},
	{Code: "PHYS", Name: "Physics"},
	{Code: "PLAP", Name: "Politics - American Politics"},
	{Code: "PSYC", Name: "Psychology"},
	{Code: "RELG", Name: "Religious Studies"},
	{Code: "SPAN", Name: "Spanish"},
	{Code: "STAT", Name: "Statistics"},
}

// CreateDefaultData seeds the subject directory if entries are missing.
// Existing rows are left untouched, so renames survive restarts.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	subjectRepo := appRepos.NewSubjectRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default subject directory...")
	var finalErr error

	created := 0
	for i := range defaultSubjects {
		subject := defaultSubjects[i]
		err := subjectRepo.Create(ctx, &subject)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "subjects_code_key") {
				continue
			}
			lgr.Error().Err(err).Str("code", subject.Code).Msg("Error seeding subject")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	if created > 0 {
		lgr.Info().Int("created", created).Msg("Subject directory seeded")
	}

	return finalErr
}
