package service

import (
	"testing"

	"github.com/safetylink/pv-backend/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateRisk(t *testing.T) {
	tests := []struct {
		name               string
		severity           model.Severity
		expectedLevel      model.RiskLevel
		expectedConfidence int
		expectedReason     string
	}{
		{
			name:               "mild maps to medium risk",
			severity:           model.SeverityMild,
			expectedLevel:      model.RiskMedium,
			expectedConfidence: 75,
			expectedReason:     mediumRiskReason,
		},
		{
			name:               "moderate maps to medium risk",
			severity:           model.SeverityModerate,
			expectedLevel:      model.RiskMedium,
			expectedConfidence: 75,
			expectedReason:     mediumRiskReason,
		},
		{
			name:               "severe maps to high risk",
			severity:           model.SeveritySevere,
			expectedLevel:      model.RiskHigh,
			expectedConfidence: 88,
			expectedReason:     highRiskReason,
		},
		{
			name:               "life-threatening maps to high risk",
			severity:           model.SeverityLifeThreatening,
			expectedLevel:      model.RiskHigh,
			expectedConfidence: 88,
			expectedReason:     highRiskReason,
		},
		{
			name:               "unrecognized severity falls into medium branch",
			severity:           model.Severity("Catastrophic"),
			expectedLevel:      model.RiskMedium,
			expectedConfidence: 75,
			expectedReason:     mediumRiskReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := EvaluateRisk(tt.severity)
			assert.Equal(t, tt.expectedLevel, assessment.Level)
			assert.Equal(t, tt.expectedConfidence, assessment.Confidence)
			assert.Equal(t, tt.expectedReason, assessment.Reason)
		})
	}
}

func TestRiskFactors(t *testing.T) {
	factors := RiskFactors(model.SeveritySevere)
	assert.Equal(t, []string{"severity_severe", "new_case", "requires_follow_up"}, factors)

	factors = RiskFactors(model.SeverityLifeThreatening)
	assert.Equal(t, "severity_life-threatening", factors[0])
}
