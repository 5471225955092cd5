package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/service"
)

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unclassified errors fall through to 500.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	case errors.Is(err, service.ErrPersistence):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    "PERSISTENCE_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: message,
			Details: stringPtr(err.Error()),
		})
	}
}
