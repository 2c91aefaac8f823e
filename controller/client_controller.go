package controller

import (
	"net/http"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ClientController struct {
	clientService services.ClientServiceInterface
	logger        logger.Logger
	validator     *validator.Validate
}

func NewClientController(clientService services.ClientServiceInterface, logger logger.Logger) *ClientController {
	return &ClientController{
		clientService: clientService,
		logger:        logger,
		validator:     validator.New(),
	}
}

// ListClients handles GET /api/v1/clients
// @Summary List clients
// @Tags Client Management
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Clients retrieved successfully"
// @Router /clients [get]
func (h *ClientController) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Clients retrieved successfully", clients)
}

// CreateClient handles POST /api/v1/clients
// @Summary Create a client
// @Tags Client Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateClientRequest true "Create client request"
// @Success 201 {object} models.APIResponse "Client created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Client name is required"
// @Router /clients [post]
func (h *ClientController) CreateClient(c *gin.Context) {
	var req models.CreateClientRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	client, err := h.clientService.CreateClient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, "Client created successfully", client)
}
