package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

func testCourse() *models.Course {
	return &models.Course{
		TermCode:      "1258",
		Subject:       "CS",
		CatalogNumber: "2150",
		Title:         "Program and Data Representation",
		Sections: []models.CourseSection{
			{SectionNumber: "001", Component: "LEC", Instructor: "Aaron Bloomfield"},
			{SectionNumber: "002", Component: "LEC", Instructor: "Nobody Known"},
		},
		Discussions: []models.CourseSection{
			{SectionNumber: "101", Component: "LAB", Instructor: "Aaron Bloomfield"},
		},
	}
}

func TestMerge_AppliesOverlayOnMatch(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{
			Subject:      "CS",
			CourseNumber: "2150",
			Instructor:   "Aaron Bloomfield",
			GPA:          "3.41",
			Rating:       "4.2",
			Difficulty:   "2.9",
			LastTaught:   "Fall 2025",
			CourseGPA:    "3.28",
			CourseRating: "4.0",
		},
	})
	course := testCourse()

	Merge(course, idx)

	matched := course.Sections[0]
	assert.Equal(t, "3.41", matched.GPA)
	assert.Equal(t, "4.2", matched.Rating)
	assert.Equal(t, "2.9", matched.Difficulty)
	assert.Equal(t, "Fall 2025", matched.LastTaught)
	assert.Equal(t, "3.28", matched.CourseGPA)
	assert.Equal(t, "4.0", matched.CourseRating)
	assert.Empty(t, matched.CourseDifficulty)
}

func TestMerge_NoMatchGetsNotAvailable(t *testing.T) {
	idx := BuildIndex(nil)
	course := testCourse()

	Merge(course, idx)

	for _, section := range course.Sections {
		assert.Equal(t, models.RatingNotAvailable, section.GPA)
		assert.Equal(t, models.RatingNotAvailable, section.Rating)
		assert.Equal(t, models.RatingNotAvailable, section.Difficulty)
		assert.Equal(t, models.RatingNotAvailable, section.LastTaught)
		assert.Empty(t, section.CourseGPA)
	}
}

func TestMerge_DiscussionsUntouched(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{Subject: "CS", CourseNumber: "2150", Instructor: "Aaron Bloomfield", GPA: "3.41"},
	})
	course := testCourse()

	Merge(course, idx)

	lab := course.Discussions[0]
	assert.Empty(t, lab.GPA)
	assert.Empty(t, lab.Rating)
	assert.Empty(t, lab.Difficulty)
	assert.Empty(t, lab.LastTaught)
}

func TestMerge_TBAInstructorSkipsLookup(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{Subject: "CS", CourseNumber: "2150", Instructor: "TBA", GPA: "3.41"},
	})
	course := testCourse()
	course.Sections[0].Instructor = models.TimeTBA

	Merge(course, idx)

	assert.Equal(t, models.RatingNotAvailable, course.Sections[0].GPA)
}

func TestMerge_MissingFiguresOnMatchShowNotAvailable(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{Subject: "CS", CourseNumber: "2150", Instructor: "Aaron Bloomfield", GPA: "3.41", Rating: "", Difficulty: "  "},
	})
	course := testCourse()

	Merge(course, idx)

	matched := course.Sections[0]
	assert.Equal(t, "3.41", matched.GPA)
	assert.Equal(t, models.RatingNotAvailable, matched.Rating)
	assert.Equal(t, models.RatingNotAvailable, matched.Difficulty)
	assert.Equal(t, models.RatingNotAvailable, matched.LastTaught)
}

func TestMerge_Idempotent(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{Subject: "CS", CourseNumber: "2150", Instructor: "Aaron Bloomfield", GPA: "3.41", Rating: "4.2"},
	})
	course := testCourse()

	Merge(course, idx)
	first := *course
	firstSections := append([]models.CourseSection(nil), course.Sections...)

	Merge(course, idx)

	assert.Equal(t, first.Title, course.Title)
	assert.Equal(t, firstSections, course.Sections)
}

func TestMerge_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Merge(nil, BuildIndex(nil))
		Merge(testCourse(), nil)
	})
}

func TestMergeAll(t *testing.T) {
	idx := BuildIndex([]models.RatingRecord{
		{Subject: "CS", CourseNumber: "2150", Instructor: "Aaron Bloomfield", GPA: "3.41"},
	})
	courses := []*models.Course{testCourse(), testCourse()}

	MergeAll(courses, idx)

	for _, course := range courses {
		require.Len(t, course.Sections, 2)
		assert.Equal(t, "3.41", course.Sections[0].GPA)
		assert.Equal(t, models.RatingNotAvailable, course.Sections[1].GPA)
	}
}
