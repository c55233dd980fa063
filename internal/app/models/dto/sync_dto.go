package dto

import (
	"time"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
)

// CreateSyncRequest asks for a catalog sync of one term. Subjects may
// be empty, meaning every subject in the directory.
type CreateSyncRequest struct {
	TermCode        string   `json:"termCode" binding:"required,numeric,len=4"`
	Subjects        []string `json:"subjects" binding:"omitempty,dive,alpha,max=8"`
	ReplaceExisting bool     `json:"replaceExisting"`
}

// SyncRunResponse represents one sync run
type SyncRunResponse struct {
	ID              string               `json:"id"`
	TermCode        string               `json:"termCode"`
	Subject         string               `json:"subject"`
	ReplaceExisting bool                 `json:"replaceExisting"`
	Status          string               `json:"status"`
	Inserted        int                  `json:"inserted"`
	Updated         int                  `json:"updated"`
	Failed          int                  `json:"failed"`
	Skipped         int                  `json:"skipped"`
	Errors          []models.CourseError `json:"errors,omitempty"`
	Message         string               `json:"message,omitempty"`
	StartedAt       time.Time            `json:"startedAt"`
	FinishedAt      *time.Time           `json:"finishedAt,omitempty"`
}

// FromSyncRun converts a models.SyncRun to a SyncRunResponse
func FromSyncRun(run *models.SyncRun) SyncRunResponse {
	if run == nil {
		return SyncRunResponse{}
	}

	return SyncRunResponse{
		ID:              run.ID.String(),
		TermCode:        run.TermCode,
		Subject:         run.Subject,
		ReplaceExisting: run.ReplaceExisting,
		Status:          string(run.Status),
		Inserted:        run.Inserted,
		Updated:         run.Updated,
		Failed:          run.Failed,
		Skipped:         run.Skipped,
		Errors:          run.Errors,
		Message:         run.Message,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
	}
}

// SyncRunListResponse represents a page of sync runs
type SyncRunListResponse struct {
	Runs       []SyncRunResponse `json:"runs"`
	Pagination PaginationInfo    `json:"pagination"`
}

// SyncAcceptedResponse acknowledges an asynchronous sync request
type SyncAcceptedResponse struct {
	Runs []SyncRunResponse `json:"runs"`
}

// SyncProgressEvent is one progress update pushed over the sync feed
type SyncProgressEvent struct {
	RunID    string `json:"runId"`
	TermCode string `json:"termCode"`
	Subject  string `json:"subject"`
	Stage    string `json:"stage"`
	Detail   string `json:"detail,omitempty"`
	Page     int    `json:"page,omitempty"`
	Courses  int    `json:"courses,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
	Updated  int    `json:"updated,omitempty"`
	Failed   int    `json:"failed,omitempty"`
}
