package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// ClinicalService handles clinician follow-up submissions
type ClinicalService struct {
	followUps FollowUpStore
	cases     CaseStore
	trail     AuditTrail
	logger    *zap.Logger
}

// NewClinicalService creates a new ClinicalService
func NewClinicalService(followUps FollowUpStore, cases CaseStore, trail AuditTrail, logger *zap.Logger) *ClinicalService {
	return &ClinicalService{
		followUps: followUps,
		cases:     cases,
		trail:     trail,
		logger:    logger,
	}
}

// ClinicalReviewForm carries the fields of the clinician follow-up form
type ClinicalReviewForm struct {
	ClinicalAssessment string                `json:"clinical_assessment"`
	DiagnosisCode      *string               `json:"diagnosis_code,omitempty"`
	Treatment          string                `json:"treatment"`
	LabResults         *string               `json:"lab_results,omitempty"`
	Outcome            model.ClinicalOutcome `json:"outcome"`
	Causality          *model.Causality      `json:"causality,omitempty"`
	FurtherFollowUp    bool                  `json:"further_follow_up"`
}

// SubmitReview persists a clinical review, records the reported outcome on
// the case, and appends an audit entry.
func (s *ClinicalService) SubmitReview(ctx context.Context, caseID string, form ClinicalReviewForm) (*model.ClinicalReview, error) {
	if form.ClinicalAssessment == "" {
		return nil, fmt.Errorf("%w: clinical assessment is required", ErrValidation)
	}
	if form.Treatment == "" {
		return nil, fmt.Errorf("%w: treatment is required", ErrValidation)
	}
	if form.Outcome == "" {
		return nil, fmt.Errorf("%w: outcome is required", ErrValidation)
	}

	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, caseLookupError(err)
	}

	review := &model.ClinicalReview{
		ID:                 uuid.New().String(),
		CaseID:             caseID,
		ClinicalAssessment: form.ClinicalAssessment,
		DiagnosisCode:      form.DiagnosisCode,
		Treatment:          form.Treatment,
		LabResults:         form.LabResults,
		Outcome:            form.Outcome,
		Causality:          form.Causality,
		FurtherFollowUp:    form.FurtherFollowUp,
	}

	if err := s.followUps.SaveClinicalReview(ctx, review); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.cases.UpdateOutcome(ctx, caseID, string(form.Outcome)); err != nil {
		s.logger.Error("failed to record clinical outcome on case",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
	}

	if err := s.trail.Append(ctx, audit.Entry{
		CaseID:  &caseID,
		Action:  audit.ActionClinicalReview,
		Role:    audit.RolePV,
		ActorID: "hcp-portal",
		Details: map[string]interface{}{
			"outcome":           string(form.Outcome),
			"further_follow_up": form.FurtherFollowUp,
		},
	}); err != nil {
		s.logger.Error("audit trail incomplete for clinical review",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
	}

	s.logger.Info("clinical review submitted",
		zap.String("review_id", review.ID),
		zap.String("case_id", caseID),
		zap.String("case_number", c.CaseNumber),
		zap.String("outcome", string(form.Outcome)),
	)

	return review, nil
}
