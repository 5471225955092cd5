package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements the case report endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateReport handles POST /api/v1/cases/:id/report
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	caseID := c.Param("id")

	reportID, err := h.service.GenerateReport(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Error("failed to generate report",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		respondServiceError(c, err, "Failed to generate report")
		return
	}

	h.logger.Info("report generated",
		zap.String("report_id", reportID),
		zap.String("case_id", caseID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"report_id": reportID,
	})
}

// DownloadReport handles GET /api/v1/reports/:id
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	reportID := c.Param("id")

	pdfBytes, err := h.service.GetReport(c.Request.Context(), reportID)
	if err != nil {
		h.logger.Error("failed to download report",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		respondServiceError(c, err, "Failed to download report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", reportID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
