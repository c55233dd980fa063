package models

// Subject is one entry of the subject directory (e.g. CS, APMA, ECON).
type Subject struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// TermSummary is one term observed in the course store.
type TermSummary struct {
	TermCode    string `json:"termCode" db:"term_code"`
	CourseCount int    `json:"courseCount" db:"course_count"`
}

// SubjectSummary is one subject observed in a term.
type SubjectSummary struct {
	Subject     string `json:"subject" db:"subject"`
	CourseCount int    `json:"courseCount" db:"course_count"`
}
