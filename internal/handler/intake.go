package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/internal/service"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// IntakeHandler implements the adverse event intake endpoints
type IntakeHandler struct {
	service *service.IntakeService
	logger  *zap.Logger
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(service *service.IntakeService, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		service: service,
		logger:  logger,
	}
}

// CaseResponse is a created or retrieved case together with its audit
// trail where requested
type CaseResponse struct {
	Case       *model.Case   `json:"case"`
	AuditTrail []audit.Entry `json:"audit_trail,omitempty"`
}

// CreateCase handles POST /api/v1/cases
func (h *IntakeHandler) CreateCase(c *gin.Context) {
	var form service.IntakeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	created, err := h.service.SubmitIntake(c.Request.Context(), form, c.ClientIP())
	if err != nil {
		h.logger.Error("failed to create case", zap.Error(err))
		respondServiceError(c, err, "Failed to create case")
		return
	}

	h.logger.Info("case submitted",
		zap.String("case_id", created.ID),
		zap.String("case_number", created.CaseNumber),
	)

	c.JSON(http.StatusCreated, CaseResponse{Case: created})
}

// GetCase handles GET /api/v1/cases/:id
func (h *IntakeHandler) GetCase(c *gin.Context) {
	caseID := c.Param("id")

	found, trail, err := h.service.GetCase(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Error("failed to get case",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		respondServiceError(c, err, "Failed to get case")
		return
	}

	c.JSON(http.StatusOK, CaseResponse{Case: found, AuditTrail: trail})
}

// GetAuditTrail handles GET /api/v1/cases/:id/audit
func (h *IntakeHandler) GetAuditTrail(c *gin.Context) {
	caseID := c.Param("id")

	_, trail, err := h.service.GetCase(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Error("failed to get audit trail",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		respondServiceError(c, err, "Failed to get audit trail")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"case_id": caseID,
		"entries": trail,
	})
}
