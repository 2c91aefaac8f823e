package controller

import (
	"net/http"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CrewController struct {
	crewService services.CrewServiceInterface
	logger      logger.Logger
	validator   *validator.Validate
}

func NewCrewController(crewService services.CrewServiceInterface, logger logger.Logger) *CrewController {
	return &CrewController{
		crewService: crewService,
		logger:      logger,
		validator:   validator.New(),
	}
}

// ListCrews handles GET /api/v1/crews
// @Summary List crews
// @Tags Crew Management
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Crews retrieved successfully"
// @Router /crews [get]
func (h *CrewController) ListCrews(c *gin.Context) {
	crews, err := h.crewService.ListCrews(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Crews retrieved successfully", crews)
}

// GetCrew handles GET /api/v1/crews/:id
// @Summary Get a crew
// @Tags Crew Management
// @Security BearerAuth
// @Produce json
// @Param id path int true "Crew ID"
// @Success 200 {object} models.APIResponse "Crew retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - Crew does not exist"
// @Router /crews/{id} [get]
func (h *CrewController) GetCrew(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	crew, err := h.crewService.GetCrew(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Crew retrieved successfully", crew)
}

// CreateCrew handles POST /api/v1/crews
// @Summary Create a new crew
// @Description Create a new crew with skills, zone and an optional position
// @Tags Crew Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateCrewRequest true "Create crew request"
// @Success 201 {object} models.APIResponse "Crew created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid crew data"
// @Router /crews [post]
func (h *CrewController) CreateCrew(c *gin.Context) {
	var req models.CreateCrewRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	crew, err := h.crewService.CreateCrew(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Crew created successfully", crew)
}
