package controller

import (
	"context"
	"net/http"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DigestRunner exposes the daily digest worker to administrators
type DigestRunner interface {
	LastRun() (*models.DigestRun, error)
	RunNow(ctx context.Context, date string) (*models.DigestRun, error)
	GetHealthStatus() map[string]interface{}
}

type DigestController struct {
	runner    DigestRunner
	logger    logger.Logger
	validator *validator.Validate
}

func NewDigestController(runner DigestRunner, logger logger.Logger) *DigestController {
	return &DigestController{
		runner:    runner,
		logger:    logger,
		validator: validator.New(),
	}
}

// Status handles GET /api/v1/admin/digest
// @Summary Digest worker status
// @Description The outcome of the most recent daily digest run
// @Tags Administration
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Digest status retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - No digest has run yet"
// @Router /admin/digest [get]
func (h *DigestController) Status(c *gin.Context) {
	run, err := h.runner.LastRun()
	if err != nil {
		h.logger.Errorf("Failed to read digest status: %v", err)
		c.JSON(http.StatusInternalServerError, models.Failure(http.StatusInternalServerError, "Failed to retrieve digest status", "WorkerError", err.Error()))
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, models.Failure(http.StatusNotFound, "No digest has run yet", "NotFoundError", "The digest worker has no recorded runs"))
		return
	}
	respondOK(c, http.StatusOK, "Digest status retrieved successfully", run)
}

// Run handles POST /api/v1/admin/digest/run
// @Summary Run the daily digest now
// @Tags Administration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DigestRunRequest false "Digest date, defaults to today"
// @Success 200 {object} models.APIResponse "Digest sent"
// @Failure 409 {object} models.APIResponse "Conflict - A digest run is in progress"
// @Router /admin/digest/run [post]
func (h *DigestController) Run(c *gin.Context) {
	var req models.DigestRunRequest
	if !bindOptionalJSON(c, h.validator, h.logger, &req) {
		return
	}

	run, err := h.runner.RunNow(c.Request.Context(), req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if run.Skipped {
		c.JSON(http.StatusConflict, models.Failure(http.StatusConflict, "A digest run is in progress", "ConflictError", "Another worker holds the digest lock"))
		return
	}
	respondOK(c, http.StatusOK, "Digest sent", run)
}
