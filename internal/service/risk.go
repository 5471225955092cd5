package service

import (
	"strings"

	"github.com/safetylink/pv-backend/pkg/model"
)

// Version tag of the rule set, recorded on every risk-assessment audit entry
const riskModelVersion = "pv-risk-v2.1"

// Every newly created case starts at this completeness score. Intake alone
// never yields a complete case, which is what triggers the follow-up.
const initialCompletenessScore = 45

const (
	highRiskReason   = "Serious event + requires immediate follow-up + clinical assessment needed"
	mediumRiskReason = "Moderate event + standard follow-up protocol + monitoring required"
)

// RiskAssessment is the output of the severity-based risk rules
type RiskAssessment struct {
	Level      model.RiskLevel
	Confidence int
	Reason     string
}

// EvaluateRisk maps intake severity to a risk assessment. The rule set is a
// fixed two-branch table; an unrecognized severity falls into the MEDIUM
// branch, so the function is total over arbitrary input.
func EvaluateRisk(severity model.Severity) RiskAssessment {
	switch severity {
	case model.SeveritySevere, model.SeverityLifeThreatening:
		return RiskAssessment{
			Level:      model.RiskHigh,
			Confidence: 88,
			Reason:     highRiskReason,
		}
	default:
		return RiskAssessment{
			Level:      model.RiskMedium,
			Confidence: 75,
			Reason:     mediumRiskReason,
		}
	}
}

// RiskFactors lists the factor tags recorded on the risk-assessment audit
// entry for a new case.
func RiskFactors(severity model.Severity) []string {
	return []string{
		"severity_" + strings.ToLower(string(severity)),
		"new_case",
		"requires_follow_up",
	}
}
