package models

// Enrollment status codes as reported by the registrar.
const (
	EnrollmentStatusOpen     = "O"
	EnrollmentStatusClosed   = "C"
	EnrollmentStatusWaitList = "W"
)

// CountUnknown marks a seat count the registrar did not report.
// Derivations must treat it as absent, never as a real count.
const CountUnknown = -1

// ClassRecord is the canonical per-section record produced by the
// registrar adapter. The upstream API publishes the same data in two
// shapes (flattened, or nested under a raw envelope); by the time a
// record reaches the pipeline it has this one shape.
type ClassRecord struct {
	TermCode      string `json:"termCode"`
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
	ClassNumber   string `json:"classNumber"`
	SectionNumber string `json:"sectionNumber"`
	Component     string `json:"component"`
	Title         string `json:"title"`
	Units         string `json:"units"`

	Capacity         int `json:"capacity"`
	Enrolled         int `json:"enrolled"`
	Available        int `json:"available"`
	WaitlistCapacity int `json:"waitlistCapacity"`
	WaitlistTotal    int `json:"waitlistTotal"`

	EnrollmentStatus            string `json:"enrollmentStatus"`
	EnrollmentStatusDescription string `json:"enrollmentStatusDescription"`

	Instructors []ClassInstructor `json:"instructors"`
	Meetings    []MeetingPattern  `json:"meetings"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Campus          string `json:"campus"`
	InstructionMode string `json:"instructionMode"`
	GradingBasis    string `json:"gradingBasis"`

	Attributes             []string `json:"attributes,omitempty"`
	RequirementDesignation string   `json:"requirementDesignation,omitempty"`
	Topic                  string   `json:"topic,omitempty"`
	CombinedSection        bool     `json:"combinedSection"`
}

// ClassInstructor is one instructor assignment on a class record.
type ClassInstructor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// MeetingPattern is one scheduled meeting of a class record.
type MeetingPattern struct {
	Days                string `json:"days"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	Building            string `json:"building,omitempty"`
	Room                string `json:"room,omitempty"`
	FacilityDescription string `json:"facilityDescription,omitempty"`
}
