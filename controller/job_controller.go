package controller

import (
	"context"
	"net/http"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type JobController struct {
	jobService        services.JobServiceInterface
	assignmentService services.AssignmentServiceInterface
	logger            logger.Logger
	validator         *validator.Validate
}

func NewJobController(jobService services.JobServiceInterface, assignmentService services.AssignmentServiceInterface, logger logger.Logger) *JobController {
	return &JobController{
		jobService:        jobService,
		assignmentService: assignmentService,
		logger:            logger,
		validator:         validator.New(),
	}
}

// ListJobs handles GET /api/v1/jobs
// @Summary List jobs
// @Description List jobs, optionally filtered by status, crew, client or date
// @Tags Job Management
// @Security BearerAuth
// @Produce json
// @Param status query string false "Job status"
// @Param crewId query int false "Crew ID"
// @Param clientId query int false "Client ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Jobs retrieved successfully"
// @Router /jobs [get]
func (h *JobController) ListJobs(c *gin.Context) {
	var filter models.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Invalid query", "ValidationError", err.Error()))
		return
	}

	jobs, err := h.jobService.GetJobs(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Jobs retrieved successfully", jobs)
}

// GetJob handles GET /api/v1/jobs/:id
// @Summary Get a job
// @Tags Job Management
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.APIResponse "Job retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - Job does not exist"
// @Router /jobs/{id} [get]
func (h *JobController) GetJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Job retrieved successfully", job)
}

// CreateJob handles POST /api/v1/jobs
// @Summary Create a new job
// @Description Create a new Scheduled job
// @Tags Job Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateJobRequest true "Create job request"
// @Success 201 {object} models.APIResponse "Job created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid job data"
// @Router /jobs [post]
func (h *JobController) CreateJob(c *gin.Context) {
	var req models.CreateJobRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	job, err := h.jobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Job created successfully", job)
}

// AssignJob handles POST /api/v1/jobs/:id/assign
// @Summary Assign a job
// @Description Assign the job to the best eligible crew by zone, skills, workload and distance
// @Tags Dispatch
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.APIResponse "Job assigned successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - No eligible crew"
// @Failure 404 {object} models.APIResponse "Not Found - Job does not exist"
// @Failure 409 {object} models.APIResponse "Conflict - Job can no longer be reassigned"
// @Router /jobs/{id}/assign [post]
func (h *JobController) AssignJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.assignmentService.AssignJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Job assigned successfully", result)
}

// Suggestions handles GET /api/v1/jobs/suggestions
// @Summary Suggest assignments
// @Description Propose a crew for every unassigned job without assigning anything
// @Tags Dispatch
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Suggestions computed"
// @Router /jobs/suggestions [get]
func (h *JobController) Suggestions(c *gin.Context) {
	suggestions, err := h.assignmentService.SuggestAssignments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Suggestions computed", suggestions)
}

// Optimize handles POST /api/v1/jobs/optimize
// @Summary Optimize assignments
// @Description Ask the external planner for suggestions, falling back to the heuristic
// @Tags Dispatch
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Suggestions computed"
// @Router /jobs/optimize [post]
func (h *JobController) Optimize(c *gin.Context) {
	result, err := h.assignmentService.Optimize(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	message := result.Message
	if message == "" {
		message = "Suggestions computed"
	}
	respondOK(c, http.StatusOK, message, result)
}

// UpdateStatus handles PATCH /api/v1/jobs/:id/status
// @Summary Override job status
// @Tags Job Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body models.UpdateStatusRequest true "New status"
// @Success 200 {object} models.APIResponse "Job status updated"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid status"
// @Router /jobs/{id}/status [patch]
func (h *JobController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	job, err := h.jobService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Job status updated", job)
}

// CheckIn handles POST /api/v1/jobs/:id/check-in
// @Summary Check in to a job
// @Description The assigned crew arrives on site; coordinates default to the crew's last position
// @Tags Job Lifecycle
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body models.CheckEventRequest false "Coordinates"
// @Success 200 {object} models.APIResponse "Checked in"
// @Failure 403 {object} models.APIResponse "Forbidden - Not assigned to this job"
// @Failure 409 {object} models.APIResponse "Conflict - Job is not Scheduled"
// @Router /jobs/{id}/check-in [post]
func (h *JobController) CheckIn(c *gin.Context) {
	h.checkEvent(c, "Checked in", h.jobService.CheckIn)
}

// CheckOut handles POST /api/v1/jobs/:id/check-out
// @Summary Check out of a job
// @Tags Job Lifecycle
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body models.CheckEventRequest false "Coordinates"
// @Success 200 {object} models.APIResponse "Checked out"
// @Failure 403 {object} models.APIResponse "Forbidden - Not assigned to this job"
// @Failure 409 {object} models.APIResponse "Conflict - Job is not On-Site"
// @Router /jobs/{id}/check-out [post]
func (h *JobController) CheckOut(c *gin.Context) {
	h.checkEvent(c, "Checked out", h.jobService.CheckOut)
}

type checkFunc func(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error)

func (h *JobController) checkEvent(c *gin.Context, message string, apply checkFunc) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	if claims.CrewID == nil {
		c.JSON(http.StatusForbidden, models.Failure(http.StatusForbidden, "No crew is linked to this account", "ForbiddenError", "crew users must belong to a crew"))
		return
	}

	var req models.CheckEventRequest
	if !bindOptionalJSON(c, h.validator, h.logger, &req) {
		return
	}
	var at *models.GeoPoint
	switch {
	case req.Lat != nil && req.Lng != nil:
		at = &models.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	case req.Lat != nil || req.Lng != nil:
		c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Validation failed", "ValidationError", "lat and lng must be provided together"))
		return
	}

	job, err := apply(c.Request.Context(), id, *claims.CrewID, at)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, message, job)
}

// Invoice handles GET /api/v1/jobs/:id/invoice
// @Summary Invoice a job
// @Description Price the on-site time of a finished job
// @Tags Billing
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.APIResponse "Invoice generated"
// @Failure 409 {object} models.APIResponse "Conflict - Job has not been completed"
// @Router /jobs/{id}/invoice [get]
func (h *JobController) Invoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	invoice, err := h.jobService.GetInvoice(c.Request.Context(), id, claims)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Invoice generated", invoice)
}
