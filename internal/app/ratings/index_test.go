package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

func ratingRecord(subject, number, instructor, gpa string) models.RatingRecord {
	return models.RatingRecord{
		Subject:      subject,
		CourseNumber: number,
		Instructor:   instructor,
		GPA:          gpa,
		Rating:       "4.2",
		Difficulty:   "2.9",
		LastTaught:   "Fall 2025",
	}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "2150", "Aaron Bloomfield", "3.41"),
		ratingRecord("CS", "2150", "Daniel Graham", "3.55"),
		ratingRecord("APMA", "3100", "Jane Smith", "3.10"),
	})

	assert.Equal(t, 2, idx.Len())

	record, ok := idx.BestMatch("CS", "2150", "Aaron Bloomfield")
	require.True(t, ok)
	assert.Equal(t, "3.41", record.GPA)
}

func TestBuildIndex_LastDuplicateWins(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "2150", "Aaron Bloomfield", "3.10"),
		ratingRecord("CS", "2150", "Aaron Bloomfield", "3.41"),
	})

	record, ok := idx.BestMatch("CS", "2150", "Aaron Bloomfield")
	require.True(t, ok)
	assert.Equal(t, "3.41", record.GPA)
}

func TestBuildIndex_SkipsUnkeyedRows(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("", "", "Aaron Bloomfield", "3.41"),
		ratingRecord("CS", "2150", "", "3.41"),
		ratingRecord("CS", "2150", "  ", "3.41"),
	})

	assert.Equal(t, 0, idx.Len())
}

func TestBestMatch_PicksHighestGPA(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "Low Scorer", "3.2"),
		ratingRecord("CS", "3140", "High Scorer", "3.8"),
	})

	record, ok := idx.BestMatch("CS", "3140", "Low Scorer; High Scorer")
	require.True(t, ok)
	assert.Equal(t, "High Scorer", record.Instructor)
	assert.Equal(t, "3.8", record.GPA)
}

func TestBestMatch_TieKeepsFirstFound(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "First Listed", "3.5"),
		ratingRecord("CS", "3140", "Second Listed", "3.5"),
	})

	record, ok := idx.BestMatch("CS", "3140", "First Listed; Second Listed")
	require.True(t, ok)
	assert.Equal(t, "First Listed", record.Instructor)
}

func TestBestMatch_SentinelGPANotEligible(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "No Figures", "N/A"),
		ratingRecord("CS", "3140", "Dash Figures", "—"),
		ratingRecord("CS", "3140", "Real Figures", "2.9"),
	})

	record, ok := idx.BestMatch("CS", "3140", "No Figures; Dash Figures; Real Figures")
	require.True(t, ok)
	assert.Equal(t, "Real Figures", record.Instructor)
}

func TestBestMatch_AllSentinelsIsNoMatch(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "No Figures", "N/A"),
	})

	_, ok := idx.BestMatch("CS", "3140", "No Figures")
	assert.False(t, ok)
}

func TestBestMatch_ExactNamesOnly(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "Arohi Khargonkar", "3.6"),
	})

	_, ok := idx.BestMatch("CS", "3140", "A. Khargonkar")
	assert.False(t, ok)
}

func TestBestMatch_UnknownCourse(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "Aaron Bloomfield", "3.41"),
	})

	_, ok := idx.BestMatch("ECON", "2010", "Aaron Bloomfield")
	assert.False(t, ok)
}

func TestBestMatch_TrimsJoinedNames(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		ratingRecord("CS", "3140", "Aaron Bloomfield", "3.41"),
	})

	record, ok := idx.BestMatch("CS", "3140", "  Aaron Bloomfield ;  ")
	require.True(t, ok)
	assert.Equal(t, "Aaron Bloomfield", record.Instructor)
}
