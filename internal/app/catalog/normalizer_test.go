package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

func lectureRecord(subject, catalogNumber, sectionNumber string) models.ClassRecord {
	return models.ClassRecord{
		TermCode:         "1258",
		Subject:          subject,
		CatalogNumber:    catalogNumber,
		SectionNumber:    sectionNumber,
		ClassNumber:      "12345",
		Component:        "LEC",
		Title:            "Introduction to Programming",
		Units:            "3",
		Capacity:         100,
		Enrolled:         80,
		Available:        20,
		EnrollmentStatus: models.EnrollmentStatusOpen,
		Instructors:      []models.ClassInstructor{{Name: "Aaron Bloomfield"}},
		Meetings: []models.MeetingPattern{
			{Days: "MoWeFr", StartTime: "09.30.00.000000", EndTime: "10.20.00.000000", FacilityDescription: "Rice Hall 130"},
		},
	}
}

func TestNormalize_GroupsSectionsByCourse(t *testing.T) {
	records := []models.ClassRecord{
		lectureRecord("CS", "1110", "001"),
		lectureRecord("CS", "1110", "002"),
		lectureRecord("CS", "2150", "001"),
	}

	result := Normalize("1258", records)

	require.Len(t, result.Courses, 2)
	assert.Empty(t, result.Skipped)

	first := result.Courses[0]
	assert.Equal(t, "1258", first.TermCode)
	assert.Equal(t, "CS", first.Subject)
	assert.Equal(t, "1110", first.CatalogNumber)
	require.Len(t, first.Sections, 2)
	assert.Equal(t, "001", first.Sections[0].SectionNumber)
	assert.Equal(t, "002", first.Sections[1].SectionNumber)

	second := result.Courses[1]
	assert.Equal(t, "2150", second.CatalogNumber)
	require.Len(t, second.Sections, 1)
}

func TestNormalize_ClassifiesDiscussionComponents(t *testing.T) {
	lecture := lectureRecord("CS", "2150", "001")
	lab := lectureRecord("CS", "2150", "101")
	lab.Component = "LAB"
	discussion := lectureRecord("CS", "2150", "102")
	discussion.Component = "dis"

	result := Normalize("1258", []models.ClassRecord{lecture, lab, discussion})

	require.Len(t, result.Courses, 1)
	course := result.Courses[0]
	require.Len(t, course.Sections, 1)
	require.Len(t, course.Discussions, 2)
	assert.Equal(t, "101", course.Discussions[0].SectionNumber)
	assert.Equal(t, "102", course.Discussions[1].SectionNumber)
}

func TestNormalize_FirstRecordSetsDescriptiveFields(t *testing.T) {
	first := lectureRecord("APMA", "3100", "001")
	first.Title = "Probability"
	first.Units = "3"
	second := lectureRecord("APMA", "3100", "002")
	second.Title = "Probability (renamed)"
	second.Units = "4"

	result := Normalize("1258", []models.ClassRecord{first, second})

	require.Len(t, result.Courses, 1)
	assert.Equal(t, "Probability", result.Courses[0].Title)
	assert.Equal(t, "3", result.Courses[0].Units)
}

func TestNormalize_SkipsMalformedRecords(t *testing.T) {
	valid := lectureRecord("CS", "1110", "001")
	noSubject := lectureRecord("", "1110", "002")
	noCatalog := lectureRecord("CS", "", "003")
	noSection := lectureRecord("CS", "1110", "")

	result := Normalize("1258", []models.ClassRecord{valid, noSubject, noCatalog, noSection})

	require.Len(t, result.Courses, 1)
	require.Len(t, result.Courses[0].Sections, 1)

	require.Len(t, result.Skipped, 3)
	assert.Equal(t, "missing subject", result.Skipped[0].Reason)
	assert.Equal(t, "missing catalog number", result.Skipped[1].Reason)
	assert.Equal(t, "missing section number", result.Skipped[2].Reason)
}

func TestNormalize_OrderFollowsFirstAppearance(t *testing.T) {
	records := []models.ClassRecord{
		lectureRecord("CS", "3100", "001"),
		lectureRecord("CS", "1110", "001"),
		lectureRecord("CS", "3100", "002"),
		lectureRecord("CS", "2150", "001"),
	}

	result := Normalize("1258", records)

	require.Len(t, result.Courses, 3)
	assert.Equal(t, "3100", result.Courses[0].CatalogNumber)
	assert.Equal(t, "1110", result.Courses[1].CatalogNumber)
	assert.Equal(t, "2150", result.Courses[2].CatalogNumber)
}

func TestNormalize_Deterministic(t *testing.T) {
	records := []models.ClassRecord{
		lectureRecord("CS", "1110", "001"),
		lectureRecord("CS", "2150", "001"),
		lectureRecord("CS", "1110", "002"),
	}

	first := Normalize("1258", records)
	second := Normalize("1258", records)

	assert.Equal(t, first, second)
}

func TestNormalize_RepeatedBatchesShareNoState(t *testing.T) {
	batch := []models.ClassRecord{lectureRecord("CS", "1110", "001")}

	Normalize("1258", batch)
	result := Normalize("1258", batch)

	require.Len(t, result.Courses, 1)
	require.Len(t, result.Courses[0].Sections, 1)
}

func TestNormalize_SectionSchedule(t *testing.T) {
	record := lectureRecord("CS", "1110", "001")

	result := Normalize("1258", []models.ClassRecord{record})

	require.Len(t, result.Courses, 1)
	section := result.Courses[0].Sections[0]
	assert.Equal(t, []string{"Mo", "We", "Fr"}, section.Days)
	assert.Equal(t, "09:30", section.StartTime)
	assert.Equal(t, "10:20", section.EndTime)
	assert.Equal(t, "Rice Hall 130", section.Location)
	assert.Equal(t, "Aaron Bloomfield", section.Instructor)
}

func TestNormalize_UnscheduledSection(t *testing.T) {
	record := lectureRecord("CS", "4980", "001")
	record.Meetings = nil
	record.Instructors = nil

	result := Normalize("1258", []models.ClassRecord{record})

	section := result.Courses[0].Sections[0]
	assert.Equal(t, models.TimeTBA, section.StartTime)
	assert.Equal(t, models.TimeTBA, section.EndTime)
	assert.Equal(t, models.TimeTBA, section.Instructor)
	assert.Nil(t, section.Days)
	assert.Empty(t, section.Location)
}

func TestNormalize_LocationFallsBackToBuildingRoom(t *testing.T) {
	record := lectureRecord("CS", "1110", "001")
	record.Meetings = []models.MeetingPattern{
		{Days: "TuTh", StartTime: "11:00", EndTime: "12:15", Building: "Olsson", Room: "120"},
	}

	result := Normalize("1258", []models.ClassRecord{record})

	assert.Equal(t, "Olsson 120", result.Courses[0].Sections[0].Location)
}

func TestNormalize_MultipleInstructorsJoined(t *testing.T) {
	record := lectureRecord("CS", "1110", "001")
	record.Instructors = []models.ClassInstructor{
		{Name: "Aaron Bloomfield"},
		{Name: ""},
		{Name: "Daniel Graham"},
	}

	result := Normalize("1258", []models.ClassRecord{record})

	assert.Equal(t, "Aaron Bloomfield; Daniel Graham", result.Courses[0].Sections[0].Instructor)
}

func TestNormalize_StatusDerivation(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		capacity  int
		enrolled  int
		available int
		want      string
	}{
		{"waitlist status wins", models.EnrollmentStatusWaitList, 100, 100, 0, models.StatusWaitList},
		{"seats available", models.EnrollmentStatusOpen, 100, 80, 20, models.StatusOpen},
		{"no seats", models.EnrollmentStatusOpen, 100, 100, 0, models.StatusClosed},
		{"derived availability", "", 100, 60, models.CountUnknown, models.StatusOpen},
		{"derived zero availability", "", 100, 100, models.CountUnknown, models.StatusClosed},
		{"overenrolled floors at zero", "", 100, 110, models.CountUnknown, models.StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := lectureRecord("CS", "1110", "001")
			record.EnrollmentStatus = tt.status
			record.Capacity = tt.capacity
			record.Enrolled = tt.enrolled
			record.Available = tt.available

			result := Normalize("1258", []models.ClassRecord{record})

			section := result.Courses[0].Sections[0]
			assert.Equal(t, tt.want, section.Status)
			if tt.available == models.CountUnknown {
				wantAvailable := tt.capacity - tt.enrolled
				if wantAvailable < 0 {
					wantAvailable = 0
				}
				assert.Equal(t, wantAvailable, section.Enrollment.Available)
			}
		})
	}
}

func TestIsDiscussionComponent(t *testing.T) {
	assert.True(t, IsDiscussionComponent("LAB"))
	assert.True(t, IsDiscussionComponent("dis"))
	assert.True(t, IsDiscussionComponent(" SEM "))
	assert.False(t, IsDiscussionComponent("LEC"))
	assert.False(t, IsDiscussionComponent(""))
}
