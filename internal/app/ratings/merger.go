package ratings

import (
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// Merge attaches a rating overlay to every lecture section of the
// course. Discussions never get an overlay; ratings are scoped to
// lecture instructors. Sections whose instructor is empty or "TBA"
// skip the lookup entirely. The index is never mutated, and running
// Merge twice over the same aggregate settles on the same overlay.
func Merge(course *models.Course, idx *Index) {
	if course == nil || idx == nil {
		return
	}

	for i := range course.Sections {
		section := &course.Sections[i]

		instructor := strings.TrimSpace(section.Instructor)
		if instructor == "" || strings.EqualFold(instructor, models.TimeTBA) {
			applyNoMatch(section)
			continue
		}

		record, ok := idx.BestMatch(course.Subject, course.CatalogNumber, instructor)
		if !ok {
			applyNoMatch(section)
			continue
		}
		applyMatch(section, record)
	}
}

// MergeAll runs Merge over a whole normalized batch.
func MergeAll(courses []*models.Course, idx *Index) {
	for _, course := range courses {
		Merge(course, idx)
	}
}

func applyMatch(section *models.CourseSection, record models.RatingRecord) {
	section.GPA = overlayValue(record.GPA)
	section.Rating = overlayValue(record.Rating)
	section.Difficulty = overlayValue(record.Difficulty)
	section.LastTaught = overlayValue(record.LastTaught)

	// Course-level figures ride along only when the snapshot had them.
	section.CourseGPA = strings.TrimSpace(record.CourseGPA)
	section.CourseRating = strings.TrimSpace(record.CourseRating)
	section.CourseDifficulty = strings.TrimSpace(record.CourseDifficulty)
}

func applyNoMatch(section *models.CourseSection) {
	section.GPA = models.RatingNotAvailable
	section.Rating = models.RatingNotAvailable
	section.Difficulty = models.RatingNotAvailable
	section.LastTaught = models.RatingNotAvailable
	section.CourseGPA = ""
	section.CourseRating = ""
	section.CourseDifficulty = ""
}

// overlayValue keeps matched figures presentable: missing fields on a
// matched record still show as "N/A" rather than blank.
func overlayValue(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.RatingNotAvailable
	}
	return s
}
