package models

import "fmt"

// CourseKey is the natural key of a persisted course. The store enforces
// its uniqueness with a compound index; application code treats it as
// the only course identity that matters across runs.
type CourseKey struct {
	TermCode      string `json:"termCode"`
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
}

// String renders the key in term/subject/number form for logs and errors.
func (k CourseKey) String() string {
	return fmt.Sprintf("%s/%s %s", k.TermCode, k.Subject, k.CatalogNumber)
}
