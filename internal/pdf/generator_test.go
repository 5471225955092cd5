package pdf

import (
	"testing"
	"time"

	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func sampleCase() *model.Case {
	age := 54
	gender := model.GenderFemale
	return &model.Case{
		ID:                "case-1",
		CaseNumber:        "PV-2024-001",
		PatientName:       "Jane Smith",
		PatientAge:        &age,
		PatientGender:     &gender,
		EventDescription:  "Severe dizziness and palpitations after second dose",
		DrugName:          "Cardiostatin",
		EventDate:         time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Severity:          model.SeveritySevere,
		RiskLevel:         model.RiskHigh,
		RiskConfidence:    88,
		RiskReason:        "Serious event + requires immediate follow-up + clinical assessment needed",
		CompletenessScore: 45,
		FollowUpStatus:    model.FollowUpComplete,
		FollowUpDueDate:   time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC),
		ReporterType:      model.ReporterPatient,
		Country:           "Germany",
	}
}

func TestPDFGenerator_Generate_Success(t *testing.T) {
	generator := NewPDFGenerator(zap.NewNop())

	caseID := "case-1"
	responded := time.Date(2024, time.June, 5, 14, 0, 0, 0, time.UTC)
	causality := model.CausalityProbable

	reportData := &ReportData{
		Case: sampleCase(),
		FollowUps: []model.FollowUp{
			{
				ID:               "fu-1",
				CaseID:           caseID,
				RecipientType:    model.ReporterPatient,
				Status:           model.FollowUpComplete,
				RespondedAt:      &responded,
				QuestionsSent:    []string{"q1", "q2", "q3", "q5", "q6", "q7", "q8", "q12"},
				QuestionsRemoved: 4,
			},
		},
		Review: &model.ClinicalReview{
			ID:                 "review-1",
			CaseID:             caseID,
			ClinicalAssessment: "Symptoms consistent with drug-induced arrhythmia",
			Treatment:          "Drug discontinued",
			Outcome:            model.OutcomeRecovering,
			Causality:          &causality,
			FurtherFollowUp:    true,
		},
		AuditTrail: []audit.Entry{
			{
				ID:        "audit-2",
				CaseID:    &caseID,
				Action:    audit.ActionRiskAssessed,
				Role:      audit.RoleSystem,
				ActorID:   "ai-risk-engine",
				IPAddress: "10.0.0.5",
				CreatedAt: time.Date(2024, time.June, 2, 9, 30, 1, 0, time.UTC),
			},
			{
				ID:        "audit-1",
				CaseID:    &caseID,
				Action:    audit.ActionCaseCreated,
				Role:      audit.RoleSystem,
				ActorID:   "web-intake-form",
				IPAddress: "203.0.113.7",
				CreatedAt: time.Date(2024, time.June, 2, 9, 30, 0, 0, time.UTC),
			},
		},
	}

	pdfBytes, err := generator.Generate(reportData)

	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_MinimalCase(t *testing.T) {
	generator := NewPDFGenerator(zap.NewNop())

	c := sampleCase()
	c.PatientAge = nil
	c.PatientGender = nil

	reportData := &ReportData{
		Case: c,
	}

	pdfBytes, err := generator.Generate(reportData)

	assert.NoError(t, err)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content even without follow-ups")
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
