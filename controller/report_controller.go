package controller

import (
	"net/http"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        logger.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger logger.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// DailySummary handles GET /api/v1/reports/daily-summary
// @Summary Daily summary
// @Description Jobs of one day counted by status and by crew
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.APIResponse "Daily summary"
// @Router /reports/daily-summary [get]
func (h *ReportController) DailySummary(c *gin.Context) {
	summary, err := h.reportService.DailySummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Daily summary", summary)
}

type ContactController struct {
	contactService services.ContactServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewContactController(contactService services.ContactServiceInterface, logger logger.Logger) *ContactController {
	return &ContactController{
		contactService: contactService,
		logger:         logger,
		validator:      validator.New(),
	}
}

// Submit handles POST /api/v1/contact
// @Summary Contact form
// @Description Forward a message from the public site to the office
// @Tags Public
// @Accept json
// @Produce json
// @Param request body models.ContactRequest true "Contact form"
// @Success 200 {object} models.APIResponse "Message received"
// @Failure 400 {object} models.APIResponse "Bad Request - Missing fields"
// @Router /contact [post]
func (h *ContactController) Submit(c *gin.Context) {
	var req models.ContactRequest
	if !bindJSON(c, h.validator, h.logger, &req) {
		return
	}
	if err := h.contactService.Submit(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, "Thank you for reaching out! We will get back to you soon.", nil)
}
