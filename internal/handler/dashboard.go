package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler implements the PV dashboard endpoints
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard summary", zap.Error(err))
		respondServiceError(c, err, "Failed to get dashboard summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListCases handles GET /api/v1/cases with an optional filter query
// parameter (all, high-risk, incomplete, overdue)
func (h *DashboardHandler) ListCases(c *gin.Context) {
	filter := repository.Filter(c.DefaultQuery("filter", string(repository.FilterAll)))

	cases, err := h.service.ListCases(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list cases",
			zap.Error(err),
			zap.String("filter", string(filter)),
		)
		respondServiceError(c, err, "Failed to list cases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cases": cases,
		"count": len(cases),
	})
}
