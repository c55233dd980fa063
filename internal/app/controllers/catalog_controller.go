package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/app/services"
	"github.com/jdiamond4/CourseSearch/internal/middleware"
)

// CatalogController handles course catalog browsing
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetTerms lists the terms present in the store
// @Summary List terms
// @Description Retrieves the terms that hold synced course data, newest first
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TermListResponse} "Terms retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [get]
func (c *CatalogController) GetTerms(ctx *gin.Context) {
	terms, err := c.catalogService.ListTerms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.TermListResponse{Terms: terms},
		Timestamp: time.Now(),
	})
}

// GetTermSubjects lists the subjects of one term
// @Summary List subjects of a term
// @Description Retrieves the subjects that hold courses in the given term, with course counts
// @Tags catalog
// @Accept json
// @Produce json
// @Param termCode path string true "Term code" example(1258)
// @Success 200 {object} dto.APIResponse{data=dto.SubjectListResponse} "Subjects retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term code"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{termCode}/subjects [get]
func (c *CatalogController) GetTermSubjects(ctx *gin.Context) {
	termCode := ctx.Param("termCode")

	subjects, err := c.catalogService.ListSubjectsByTerm(ctx.Request.Context(), termCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SubjectListResponse{TermCode: termCode, Subjects: subjects},
		Timestamp: time.Now(),
	})
}

// GetSubjectDirectory lists the seeded subject directory
// @Summary List the subject directory
// @Description Retrieves every subject known to the catalog, independent of synced terms
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SubjectDirectoryResponse} "Subjects retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *CatalogController) GetSubjectDirectory(ctx *gin.Context) {
	subjects, err := c.catalogService.ListSubjectDirectory(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SubjectDirectoryResponse{Subjects: subjects},
		Timestamp: time.Now(),
	})
}

// GetCourses lists course summaries with filters
// @Summary List courses
// @Description Retrieves a filtered, paginated list of course summaries
// @Tags catalog
// @Accept json
// @Produce json
// @Param termCode query string false "Term code filter" example(1258)
// @Param subject query string false "Subject code filter" example(CS)
// @Param q query string false "Search over title and catalog number"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter values"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	var query dto.CourseListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter values")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	courses, pagination, err := c.catalogService.ListCourses(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.CourseListResponse{Courses: courses, Pagination: pagination},
		Timestamp: time.Now(),
	})
}

// GetCourseByKey retrieves one full course document
// @Summary Get course details
// @Description Retrieves one course with all sections, discussions and rating overlays
// @Tags catalog
// @Accept json
// @Produce json
// @Param termCode path string true "Term code" example(1258)
// @Param subject path string true "Subject code" example(CS)
// @Param catalogNumber path string true "Catalog number" example(2150)
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course key"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{termCode}/{subject}/{catalogNumber} [get]
func (c *CatalogController) GetCourseByKey(ctx *gin.Context) {
	course, err := c.catalogService.GetCourse(
		ctx.Request.Context(),
		ctx.Param("termCode"),
		ctx.Param("subject"),
		ctx.Param("catalogNumber"),
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}
