package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"timeboss-backend/apperrors"
	"timeboss-backend/middelware"
	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError translates an error kind into its HTTP status and envelope
func respondError(c *gin.Context, log logger.Logger, err error) {
	status, errType := http.StatusInternalServerError, "InfrastructureError"
	message := err.Error()

	switch {
	case apperrors.IsNotFound(err):
		status, errType = http.StatusNotFound, "NotFoundError"
	case apperrors.IsForbidden(err):
		status, errType = http.StatusForbidden, "ForbiddenError"
	case apperrors.IsUnauthorized(err):
		status, errType = http.StatusUnauthorized, "AuthenticationError"
	case apperrors.IsInvalidState(err):
		status, errType = http.StatusConflict, "InvalidStateError"
	case apperrors.IsInvalidStatus(err):
		status, errType = http.StatusBadRequest, "InvalidStatusError"
	case apperrors.IsNoEligibleCrew(err):
		status, errType = http.StatusBadRequest, "NoEligibleCrewError"
	case apperrors.IsValidation(err):
		status, errType = http.StatusBadRequest, "ValidationError"
	case apperrors.IsAlreadyExists(err):
		status, errType = http.StatusBadRequest, "AlreadyExistsError"
	default:
		log.Errorf("Request failed: %v", err)
		message = "Internal server error"
	}

	details := message
	if status == http.StatusInternalServerError {
		details = "The request could not be completed, please retry"
	}
	c.JSON(status, models.Failure(status, message, errType, details))
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Success(status, message, data))
}

// bindJSON decodes and validates the request body, answering 400 on failure
func bindJSON(c *gin.Context, v *validator.Validate, log logger.Logger, req interface{}) bool {
	return decodeBody(c, v, log, req, false)
}

// bindOptionalJSON is bindJSON for endpoints whose body may be absent, including an empty
// chunked body
func bindOptionalJSON(c *gin.Context, v *validator.Validate, log logger.Logger, req interface{}) bool {
	return decodeBody(c, v, log, req, true)
}

func decodeBody(c *gin.Context, v *validator.Validate, log logger.Logger, req interface{}, optional bool) bool {
	if err := c.ShouldBindJSON(req); err != nil && !(optional && errors.Is(err, io.EOF)) {
		log.Warnf("Failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Invalid request", "ValidationError", err.Error()))
		return false
	}
	if err := v.Struct(req); err != nil {
		log.Warnf("Validation failed: %v", err)
		c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Validation failed", "ValidationError", formatValidationErrors(err)))
		return false
	}
	return true
}

func formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param())
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param())
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "email":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a valid email address")
			case "len":
				errorMessages = append(errorMessages, fieldError.Field()+" must be exactly "+fieldError.Param()+" characters")
			case "datetime":
				errorMessages = append(errorMessages, fieldError.Field()+" must match "+fieldError.Param())
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// pathID reads a positive integer path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Invalid "+name, "ValidationError", name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

// requireClaims returns the authenticated claims or answers 401
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims, ok := middelware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Failure(http.StatusUnauthorized, "Authentication required", "AuthenticationError", "User not authenticated"))
		return nil, false
	}
	return claims, true
}
