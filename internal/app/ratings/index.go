package ratings

import (
	"strconv"
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// Index holds one snapshot's rating records keyed for exact lookup:
// (subject, course number) first, instructor name second. It is built
// once per run and read-only afterwards, so it can be shared across
// concurrent subject pipelines.
type Index struct {
	byCourse map[string]map[string]models.RatingRecord
}

// BuildIndex constructs an index from snapshot rows. When the snapshot
// carries several rows for the same (subject, number, instructor), the
// last row encountered wins, matching the capture order of the file.
func BuildIndex(records []models.RatingRecord) *Index {
	idx := &Index{byCourse: make(map[string]map[string]models.RatingRecord)}
	for _, record := range records {
		key := courseKey(record.Subject, record.CourseNumber)
		instructor := strings.TrimSpace(record.Instructor)
		if key == "|" || instructor == "" {
			continue
		}
		byInstructor, ok := idx.byCourse[key]
		if !ok {
			byInstructor = make(map[string]models.RatingRecord)
			idx.byCourse[key] = byInstructor
		}
		byInstructor[instructor] = record
	}
	return idx
}

// Len returns the number of distinct (subject, number) courses indexed.
func (idx *Index) Len() int {
	return len(idx.byCourse)
}

// BestMatch resolves a section's semicolon-joined instructor string
// against the snapshot. Each name is trimmed and looked up exactly; no
// fuzzy or initials matching is attempted, so "A. Khargonkar" will not
// find "Arohi Khargonkar" (a known limitation of the snapshot data,
// roughly a 30% hit rate in practice). Among matches the record with
// the highest parseable GPA wins, first found on ties; records whose
// GPA is a non-numeric sentinel are not eligible. The false return is
// a normal, frequent outcome.
func (idx *Index) BestMatch(subject, catalogNumber, instructor string) (models.RatingRecord, bool) {
	byInstructor, ok := idx.byCourse[courseKey(subject, catalogNumber)]
	if !ok {
		return models.RatingRecord{}, false
	}

	var best models.RatingRecord
	bestGPA := 0.0
	found := false

	for _, name := range strings.Split(instructor, ";") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		record, ok := byInstructor[name]
		if !ok {
			continue
		}
		gpa, ok := parseGPA(record.GPA)
		if !ok {
			continue
		}
		if !found || gpa > bestGPA {
			best = record
			bestGPA = gpa
			found = true
		}
	}

	return best, found
}

func courseKey(subject, courseNumber string) string {
	return strings.TrimSpace(subject) + "|" + strings.TrimSpace(courseNumber)
}

// parseGPA extracts a comparable GPA value. Sentinels like "N/A", "—"
// and empty strings report false.
func parseGPA(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	gpa, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return gpa, true
}
