package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/app/services"
	"github.com/jdiamond4/CourseSearch/internal/middleware"
	"github.com/jdiamond4/CourseSearch/internal/pkg/helpers"
)

// SyncController handles sync pipeline administration
type SyncController struct {
	syncService services.SyncService
	logger      zerolog.Logger
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService services.SyncService, logger zerolog.Logger) *SyncController {
	return &SyncController{
		syncService: syncService,
		logger:      logger,
	}
}

// CreateSync starts a catalog sync
// @Summary Start a catalog sync
// @Description Launches one background sync run per subject for the given term and returns the created run records
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSyncRequest true "Sync parameters"
// @Success 202 {object} dto.APIResponse{data=dto.SyncAcceptedResponse} "Sync runs accepted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "A sync for this term and subject is already running"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/syncs [post]
func (c *SyncController) CreateSync(ctx *gin.Context) {
	var req dto.CreateSyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sync request payload")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	runs, err := c.syncService.StartSyncs(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("term", req.TermCode).
		Int("subjects", len(runs)).
		Bool("replace", req.ReplaceExisting).
		Msg("Sync runs accepted")

	responses := make([]dto.SyncRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, dto.FromSyncRun(run))
	}

	ctx.JSON(http.StatusAccepted, dto.APIResponse{
		Data:      dto.SyncAcceptedResponse{Runs: responses},
		Timestamp: time.Now(),
	})
}

// GetSyncRun retrieves one sync run
// @Summary Get sync run details
// @Description Retrieves the state and counters of one sync run
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Run ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SyncRunResponse} "Run retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid run ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/syncs/{id} [get]
func (c *SyncController) GetSyncRun(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid run ID")
		errorDetail = errorDetail.WithDetails("Run ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	run, err := c.syncService.GetRun(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromSyncRun(run),
		Timestamp: time.Now(),
	})
}

// ListSyncRuns lists sync run history
// @Summary List sync runs
// @Description Retrieves sync run history, newest first, optionally filtered by term
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param termCode query string false "Term code filter" example(1258)
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.SyncRunListResponse} "Runs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter values"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/syncs [get]
func (c *SyncController) ListSyncRuns(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	runs, pagination, err := c.syncService.ListRuns(ctx.Request.Context(), ctx.Query("termCode"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.SyncRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, dto.FromSyncRun(&runs[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SyncRunListResponse{Runs: responses, Pagination: pagination},
		Timestamp: time.Now(),
	})
}
