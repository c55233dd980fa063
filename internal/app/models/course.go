package models

import "time"

// Section status values derived from enrollment figures.
const (
	StatusOpen     = "Open"
	StatusClosed   = "Closed"
	StatusWaitList = "Wait List"
)

// RatingNotAvailable is the overlay value for sections without a usable
// instructor rating. Consumers rely on the literal string, never null.
const RatingNotAvailable = "N/A"

// TimeTBA marks meeting times the registrar has not scheduled. It keeps
// unscheduled sections distinguishable from ones that meet at midnight.
const TimeTBA = "TBA"

// Course is one offering of a catalog course within a term, aggregated
// from the per-section records the registrar publishes. Identity is the
// (termCode, subject, catalogNumber) compound key.
type Course struct {
	ID            int64  `json:"id" db:"id"`
	TermCode      string `json:"termCode" db:"term_code"`
	Subject       string `json:"subject" db:"subject"`
	CatalogNumber string `json:"catalogNumber" db:"catalog_number"`
	Title         string `json:"title" db:"title"`
	Units         string `json:"units" db:"units"`

	Attributes             []string `json:"attributes,omitempty" db:"attributes"`
	RequirementDesignation string   `json:"requirementDesignation,omitempty" db:"requirement_designation"`

	// Sections holds the lecture-type components, Discussions everything
	// classified as a secondary component (labs, discussions, seminars).
	// Both are stored as JSONB documents on the course row.
	Sections    []CourseSection `json:"sections" db:"sections"`
	Discussions []CourseSection `json:"discussions" db:"discussions"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Key returns the natural key of the course.
func (c *Course) Key() CourseKey {
	return CourseKey{TermCode: c.TermCode, Subject: c.Subject, CatalogNumber: c.CatalogNumber}
}

// CourseSection is one meeting section embedded in a course document.
type CourseSection struct {
	SectionNumber string   `json:"sectionNumber"`
	ClassNumber   string   `json:"classNumber,omitempty"`
	Component     string   `json:"component"`
	Instructor    string   `json:"instructor"`
	Days          []string `json:"days,omitempty"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Location      string   `json:"location,omitempty"`

	Enrollment Enrollment `json:"enrollment"`
	Status     string     `json:"status"`

	// Rating overlay. Set on every lecture section after the merge step,
	// with RatingNotAvailable standing in when no match was found.
	// Discussion sections never carry an overlay.
	GPA        string `json:"gpa,omitempty"`
	Rating     string `json:"rating,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	LastTaught string `json:"lastTaught,omitempty"`

	// Course-level figures from the matched rating record, present only
	// when the snapshot carried them.
	CourseGPA        string `json:"courseGpa,omitempty"`
	CourseRating     string `json:"courseRating,omitempty"`
	CourseDifficulty string `json:"courseDifficulty,omitempty"`
}

// Enrollment captures the seat counts of a section.
type Enrollment struct {
	Enrolled         int `json:"enrolled"`
	Capacity         int `json:"capacity"`
	Available        int `json:"available"`
	Waitlist         int `json:"waitlist"`
	WaitlistCapacity int `json:"waitlistCapacity"`
}

// CourseSummary is the listing projection of a course, without the
// section documents.
type CourseSummary struct {
	ID            int64  `json:"id" db:"id"`
	TermCode      string `json:"termCode" db:"term_code"`
	Subject       string `json:"subject" db:"subject"`
	CatalogNumber string `json:"catalogNumber" db:"catalog_number"`
	Title         string `json:"title" db:"title"`
	Units         string `json:"units" db:"units"`
	SectionCount  int    `json:"sectionCount" db:"section_count"`
}
