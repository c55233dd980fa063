package catalog

import (
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
)

// discussionComponents are the component codes grouped under a course's
// discussions collection. Everything else counts as a lecture section.
var discussionComponents = map[string]struct{}{
	"LAB": {},
	"DIS": {},
	"SEM": {},
	"SPS": {},
	"IND": {},
	"PRA": {},
	"TUT": {},
}

// IsDiscussionComponent reports whether a component code belongs in the
// discussions collection. This is the only classification rule; every
// place that groups sections must go through it.
func IsDiscussionComponent(component string) bool {
	_, ok := discussionComponents[strings.ToUpper(strings.TrimSpace(component))]
	return ok
}

// SkippedRecord is a raw record the normalizer refused, with the reason.
type SkippedRecord struct {
	Record models.ClassRecord `json:"record"`
	Reason string             `json:"reason"`
}

// Result is the outcome of one normalization pass.
type Result struct {
	Courses []*models.Course
	Skipped []SkippedRecord
}

// Normalize folds one fetch batch of class records into course
// aggregates, one per distinct (subject, catalogNumber). The grouping
// map lives and dies inside this call, so repeated batches can never
// leak state into each other. Output order follows first appearance in
// the input; given the same input the output is identical field for
// field.
func Normalize(termCode string, records []models.ClassRecord) Result {
	courses := make(map[string]*models.Course)
	var order []string
	var skipped []SkippedRecord

	for _, record := range records {
		subject := strings.TrimSpace(record.Subject)
		catalogNumber := strings.TrimSpace(record.CatalogNumber)
		sectionNumber := strings.TrimSpace(record.SectionNumber)

		reason := ""
		switch {
		case subject == "":
			reason = "missing subject"
		case catalogNumber == "":
			reason = "missing catalog number"
		case sectionNumber == "":
			reason = "missing section number"
		}
		if reason != "" {
			skipped = append(skipped, SkippedRecord{Record: record, Reason: reason})
			logger.Warn().
				Str("term", termCode).
				Str("subject", record.Subject).
				Str("catalogNumber", record.CatalogNumber).
				Str("reason", reason).
				Msg("Skipping malformed class record")
			continue
		}

		key := subject + "|" + catalogNumber
		course, ok := courses[key]
		if !ok {
			// The first record seen for a course sets its descriptive
			// fields; later records only contribute sections.
			course = &models.Course{
				TermCode:               termCode,
				Subject:                subject,
				CatalogNumber:          catalogNumber,
				Title:                  strings.TrimSpace(record.Title),
				Units:                  strings.TrimSpace(record.Units),
				Attributes:             record.Attributes,
				RequirementDesignation: record.RequirementDesignation,
			}
			courses[key] = course
			order = append(order, key)
		}

		section := buildSection(record, sectionNumber)
		if IsDiscussionComponent(record.Component) {
			course.Discussions = append(course.Discussions, section)
		} else {
			course.Sections = append(course.Sections, section)
		}
	}

	result := Result{Skipped: skipped}
	result.Courses = make([]*models.Course, 0, len(order))
	for _, key := range order {
		result.Courses = append(result.Courses, courses[key])
	}
	return result
}

// buildSection shapes one class record into an embedded section.
func buildSection(record models.ClassRecord, sectionNumber string) models.CourseSection {
	section := models.CourseSection{
		SectionNumber: sectionNumber,
		ClassNumber:   strings.TrimSpace(record.ClassNumber),
		Component:     strings.TrimSpace(record.Component),
		Instructor:    joinInstructors(record.Instructors),
		StartTime:     models.TimeTBA,
		EndTime:       models.TimeTBA,
	}

	// A record may carry several meeting patterns; the first one is the
	// section's canonical schedule and the rest are not exposed.
	if len(record.Meetings) > 0 {
		meeting := record.Meetings[0]
		section.Days = ParseMeetingDays(meeting.Days)
		section.StartTime = ParseClockTime(meeting.StartTime)
		section.EndTime = ParseClockTime(meeting.EndTime)
		section.Location = meetingLocation(meeting)
	}

	section.Enrollment = buildEnrollment(record)
	section.Status = deriveStatus(record, section.Enrollment.Available)
	return section
}

// joinInstructors joins instructor names with "; ", keeping their
// order. Sections without an assigned instructor read "TBA".
func joinInstructors(instructors []models.ClassInstructor) string {
	var names []string
	for _, instructor := range instructors {
		name := strings.TrimSpace(instructor.Name)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return models.TimeTBA
	}
	return strings.Join(names, "; ")
}

func meetingLocation(meeting models.MeetingPattern) string {
	if desc := strings.TrimSpace(meeting.FacilityDescription); desc != "" {
		return desc
	}
	location := strings.TrimSpace(strings.TrimSpace(meeting.Building) + " " + strings.TrimSpace(meeting.Room))
	return location
}

func buildEnrollment(record models.ClassRecord) models.Enrollment {
	enrollment := models.Enrollment{
		Enrolled:         nonNegative(record.Enrolled),
		Capacity:         nonNegative(record.Capacity),
		Waitlist:         nonNegative(record.WaitlistTotal),
		WaitlistCapacity: nonNegative(record.WaitlistCapacity),
	}

	// Available seats come from the source when reported, otherwise
	// from capacity minus enrolled, floored at zero.
	if record.Available != models.CountUnknown {
		enrollment.Available = nonNegative(record.Available)
	} else {
		available := enrollment.Capacity - enrollment.Enrolled
		if available < 0 {
			available = 0
		}
		enrollment.Available = available
	}
	return enrollment
}

func deriveStatus(record models.ClassRecord, available int) string {
	if strings.EqualFold(strings.TrimSpace(record.EnrollmentStatus), models.EnrollmentStatusWaitList) {
		return models.StatusWaitList
	}
	if available > 0 {
		return models.StatusOpen
	}
	return models.StatusClosed
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
