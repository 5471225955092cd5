package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// Actor identifiers recorded on the creation-time audit entries
const (
	intakeActorID     = "web-intake-form"
	riskEngineActorID = "ai-risk-engine"
)

// The risk engine writes audit entries from a fixed internal address
const riskEngineAddress = "10.0.0.5"

// How long after intake a follow-up response is due
const followUpWindow = 7 * 24 * time.Hour

// IntakeForm carries the fields submitted on the adverse event report form
type IntakeForm struct {
	PatientName      string              `json:"patient_name"`
	PatientAge       *int                `json:"patient_age,omitempty"`
	PatientGender    *model.Gender       `json:"patient_gender,omitempty"`
	DrugName         string              `json:"drug_name"`
	EventDate        time.Time           `json:"event_date"`
	EventDescription string              `json:"event_description"`
	Severity         model.Severity      `json:"severity"`
	ReporterType     model.ReporterType  `json:"reporter_type"`
	Country          string              `json:"country"`
}

// IntakeService orchestrates the case creation lifecycle: allocate a case
// number, assess risk, persist the case, write the audit trail.
type IntakeService struct {
	cases  CaseStore
	trail  AuditTrail
	logger *zap.Logger
	now    func() time.Time
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(cases CaseStore, trail AuditTrail, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		cases:  cases,
		trail:  trail,
		logger: logger,
		now:    time.Now,
	}
}

// validate checks the submitted form before any store round-trip
func (s *IntakeService) validate(form *IntakeForm) error {
	if form.PatientName == "" {
		return fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if form.DrugName == "" {
		return fmt.Errorf("%w: drug name is required", ErrValidation)
	}
	if form.EventDescription == "" {
		return fmt.Errorf("%w: event description is required", ErrValidation)
	}
	if form.EventDate.IsZero() {
		return fmt.Errorf("%w: event date is required", ErrValidation)
	}
	if form.Severity == "" {
		return fmt.Errorf("%w: severity is required", ErrValidation)
	}
	if form.ReporterType == "" {
		return fmt.Errorf("%w: reporter type is required", ErrValidation)
	}
	if form.PatientAge != nil && *form.PatientAge < 0 {
		return fmt.Errorf("%w: patient age cannot be negative", ErrValidation)
	}
	return nil
}

// SubmitIntake runs the full intake sequence and returns the persisted
// case. A failed case insert halts the sequence before any audit entry is
// written and is returned to the caller; a failed audit write after a
// successful insert is logged for monitoring but does not fail the
// submission.
func (s *IntakeService) SubmitIntake(ctx context.Context, form IntakeForm, clientIP string) (*model.Case, error) {
	if err := s.validate(&form); err != nil {
		return nil, err
	}

	now := s.now()

	// A failed count lookup defaults to zero rather than blocking intake
	count, err := s.cases.Count(ctx)
	if err != nil {
		s.logger.Warn("case count lookup failed, defaulting to zero", zap.Error(err))
		count = 0
	}

	caseNumber := NextCaseNumber(count, now)
	assessment := EvaluateRisk(form.Severity)

	newCase := &model.Case{
		ID:                uuid.New().String(),
		CaseNumber:        caseNumber,
		PatientName:       form.PatientName,
		PatientAge:        form.PatientAge,
		PatientGender:     form.PatientGender,
		EventDescription:  form.EventDescription,
		DrugName:          form.DrugName,
		EventDate:         form.EventDate,
		Severity:          form.Severity,
		RiskLevel:         assessment.Level,
		RiskConfidence:    assessment.Confidence,
		RiskReason:        assessment.Reason,
		CompletenessScore: initialCompletenessScore,
		FollowUpStatus:    model.FollowUpPending,
		FollowUpDueDate:   now.Add(followUpWindow),
		ReporterType:      form.ReporterType,
		Country:           form.Country,
	}

	if err := s.cases.Insert(ctx, newCase); err != nil {
		s.logger.Error("case insert failed, intake halted",
			zap.Error(err),
			zap.String("case_number", caseNumber),
		)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Audit failure leaves the created case in place; the missing trail
	// entries are an inconsistency for monitoring, not a rollback.
	if err := s.trail.Append(ctx,
		audit.Entry{
			CaseID:  &newCase.ID,
			Action:  audit.ActionCaseCreated,
			Role:    audit.RoleSystem,
			ActorID: intakeActorID,
			Details: map[string]interface{}{
				"source":     "web_form",
				"validation": "passed",
			},
			IPAddress: clientIP,
		},
		audit.Entry{
			CaseID:  &newCase.ID,
			Action:  audit.ActionRiskAssessed,
			Role:    audit.RoleSystem,
			ActorID: riskEngineActorID,
			Details: map[string]interface{}{
				"model":      riskModelVersion,
				"confidence": assessment.Confidence,
				"factors":    RiskFactors(form.Severity),
			},
			IPAddress: riskEngineAddress,
		},
	); err != nil {
		s.logger.Error("audit trail incomplete for created case",
			zap.Error(err),
			zap.String("case_id", newCase.ID),
			zap.String("case_number", caseNumber),
		)
	}

	s.logger.Info("case created",
		zap.String("case_id", newCase.ID),
		zap.String("case_number", caseNumber),
		zap.String("risk_level", string(assessment.Level)),
		zap.Int("risk_confidence", assessment.Confidence),
	)

	return newCase, nil
}

// GetCase retrieves a case together with its audit trail, newest first
func (s *IntakeService) GetCase(ctx context.Context, caseID string) (*model.Case, []audit.Entry, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, nil, caseLookupError(err)
	}

	entries, err := s.trail.ListByCase(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to load audit trail", zap.Error(err), zap.String("case_id", caseID))
		return nil, nil, fmt.Errorf("failed to load audit trail: %w", err)
	}

	return c, entries, nil
}
