package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylink/pv-backend/internal/service"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// FollowUpHandler implements the follow-up questionnaire endpoints
type FollowUpHandler struct {
	service *service.FollowUpService
	logger  *zap.Logger
}

// NewFollowUpHandler creates a new FollowUpHandler
func NewFollowUpHandler(service *service.FollowUpService, logger *zap.Logger) *FollowUpHandler {
	return &FollowUpHandler{
		service: service,
		logger:  logger,
	}
}

// StartFollowUpRequest selects who the follow-up questionnaire goes to
type StartFollowUpRequest struct {
	RecipientType model.ReporterType `json:"recipient_type"`
}

// SessionResponse is a follow-up session with its questionnaire
type SessionResponse struct {
	FollowUp  *model.FollowUp    `json:"follow_up"`
	Questions []service.Question `json:"questions"`
	Removed   int                `json:"questions_removed_by_ai"`
}

// StartFollowUp handles POST /api/v1/cases/:id/followup
func (h *FollowUpHandler) StartFollowUp(c *gin.Context) {
	caseID := c.Param("id")

	var req StartFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if req.RecipientType == "" {
		req.RecipientType = model.ReporterPatient
	}

	fu, err := h.service.StartFollowUp(c.Request.Context(), caseID, req.RecipientType)
	if err != nil {
		h.logger.Error("failed to start follow-up",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		respondServiceError(c, err, "Failed to start follow-up")
		return
	}

	h.logger.Info("follow-up started",
		zap.String("follow_up_id", fu.ID),
		zap.String("case_id", caseID),
		zap.Int("questions_sent", len(fu.QuestionsSent)),
	)

	c.JSON(http.StatusCreated, fu)
}

// OpenFollowUp handles GET /api/v1/followups/:token
func (h *FollowUpHandler) OpenFollowUp(c *gin.Context) {
	token := c.Param("token")

	session, err := h.service.OpenFollowUp(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("failed to open follow-up", zap.Error(err))
		respondServiceError(c, err, "Failed to open follow-up")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		FollowUp:  session.FollowUp,
		Questions: session.Questions,
		Removed:   session.Removed,
	})
}

// SubmitResponsesRequest carries the questionnaire answers keyed by
// question ID
type SubmitResponsesRequest struct {
	Answers map[string]string `json:"answers"`
}

// SubmitResponses handles POST /api/v1/followups/:token/responses
func (h *FollowUpHandler) SubmitResponses(c *gin.Context) {
	token := c.Param("token")

	var req SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	fu, err := h.service.SubmitResponses(c.Request.Context(), token, req.Answers)
	if err != nil {
		h.logger.Error("failed to submit follow-up responses", zap.Error(err))
		respondServiceError(c, err, "Failed to submit follow-up responses")
		return
	}

	h.logger.Info("follow-up responses submitted",
		zap.String("follow_up_id", fu.ID),
		zap.String("case_id", fu.CaseID),
	)

	c.JSON(http.StatusOK, fu)
}
