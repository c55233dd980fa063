package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRunStatus is the lifecycle state of a sync run.
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusCompleted SyncRunStatus = "COMPLETED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
)

// SyncRun is one recorded execution of the fetch-normalize-merge-upsert
// pipeline for a (term, subject) pair.
type SyncRun struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	TermCode        string        `json:"termCode" db:"term_code"`
	Subject         string        `json:"subject" db:"subject"`
	ReplaceExisting bool          `json:"replaceExisting" db:"replace_existing"`
	Status          SyncRunStatus `json:"status" db:"status"`

	Inserted int `json:"inserted" db:"inserted"`
	Updated  int `json:"updated" db:"updated"`
	Failed   int `json:"failed" db:"failed"`
	Skipped  int `json:"skipped" db:"skipped"`

	// Errors holds the per-course store rejections. Stored as JSONB.
	Errors []CourseError `json:"errors,omitempty" db:"errors"`

	// Message carries the terminal failure reason for failed runs.
	Message string `json:"message,omitempty" db:"message"`

	StartedAt  time.Time  `json:"startedAt" db:"started_at"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" db:"finished_at"`
}

// CourseError identifies one course that could not be persisted, with
// the store's reason. The batch keeps going past these.
type CourseError struct {
	TermCode      string `json:"termCode"`
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
	Message       string `json:"message"`
}

// SyncReport is the structured result of one pipeline run.
type SyncReport struct {
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Errors   []CourseError `json:"errors,omitempty"`
}

// Merge folds another report's counts and errors into r.
func (r *SyncReport) Merge(other SyncReport) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Failed += other.Failed
	r.Skipped += other.Skipped
	r.Errors = append(r.Errors, other.Errors...)
}
