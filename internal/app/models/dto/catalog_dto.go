package dto

import "github.com/jdiamond4/CourseSearch/internal/app/models"

// CourseListQuery represents the course listing filters
type CourseListQuery struct {
	TermCode string `form:"termCode" binding:"omitempty,numeric,len=4"`
	Subject  string `form:"subject" binding:"omitempty,alpha,max=8"`
	Query    string `form:"q" binding:"omitempty,max=120"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// CourseListResponse represents a page of course summaries
type CourseListResponse struct {
	Courses    []models.CourseSummary `json:"courses"`
	Pagination PaginationInfo         `json:"pagination"`
}

// TermListResponse represents the terms present in the store
type TermListResponse struct {
	Terms []models.TermSummary `json:"terms"`
}

// SubjectListResponse represents the subjects of one term
type SubjectListResponse struct {
	TermCode string                  `json:"termCode,omitempty"`
	Subjects []models.SubjectSummary `json:"subjects"`
}

// SubjectDirectoryResponse represents the seeded subject directory
type SubjectDirectoryResponse struct {
	Subjects []models.Subject `json:"subjects"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
