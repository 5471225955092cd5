package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/service"
	"go.uber.org/zap"
)

// ClinicalHandler implements the clinician follow-up endpoint
type ClinicalHandler struct {
	service *service.ClinicalService
	logger  *zap.Logger
}

// NewClinicalHandler creates a new ClinicalHandler
func NewClinicalHandler(service *service.ClinicalService, logger *zap.Logger) *ClinicalHandler {
	return &ClinicalHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitReview handles POST /api/v1/cases/:id/review
func (h *ClinicalHandler) SubmitReview(c *gin.Context) {
	caseID := c.Param("id")

	var form service.ClinicalReviewForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	review, err := h.service.SubmitReview(c.Request.Context(), caseID, form)
	if err != nil {
		h.logger.Error("failed to submit clinical review",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		respondServiceError(c, err, "Failed to submit clinical review")
		return
	}

	h.logger.Info("clinical review submitted",
		zap.String("review_id", review.ID),
		zap.String("case_id", caseID),
	)

	c.JSON(http.StatusCreated, review)
}
