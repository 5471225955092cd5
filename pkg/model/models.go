package model

import "time"

// Severity is the reporter-assessed severity of an adverse event.
type Severity string

const (
	SeverityMild            Severity = "Mild"
	SeverityModerate        Severity = "Moderate"
	SeveritySevere          Severity = "Severe"
	SeverityLifeThreatening Severity = "Life-threatening"
)

// RiskLevel is the triage tier assigned by the risk engine.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// FollowUpStatus tracks the follow-up lifecycle of a case.
type FollowUpStatus string

const (
	FollowUpPending   FollowUpStatus = "Pending"
	FollowUpSent      FollowUpStatus = "Sent"
	FollowUpViewed    FollowUpStatus = "Viewed"
	FollowUpResponded FollowUpStatus = "Responded"
	FollowUpComplete  FollowUpStatus = "Complete"
	FollowUpExpired   FollowUpStatus = "Expired"
)

// ReporterType identifies who submitted the initial report.
type ReporterType string

const (
	ReporterPatient    ReporterType = "Patient"
	ReporterHCP        ReporterType = "HCP"
	ReporterPharmacist ReporterType = "Pharmacist"
)

// Gender is the optional patient gender field on the intake form.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
	GenderOther  Gender = "Other"
)

// Case represents one reported adverse drug event and its tracked metadata.
// Risk and completeness fields are set once at creation and never recomputed;
// only the follow-up status and outcome change afterwards.
type Case struct {
	ID                string         `json:"id"`
	CaseNumber        string         `json:"case_number"`
	PatientName       string         `json:"patient_name"`
	PatientAge        *int           `json:"patient_age,omitempty"`
	PatientGender     *Gender        `json:"patient_gender,omitempty"`
	EventDescription  string         `json:"event_description"`
	DrugName          string         `json:"drug_name"`
	EventDate         time.Time      `json:"event_date"`
	Severity          Severity       `json:"severity"`
	Outcome           *string        `json:"outcome,omitempty"`
	RiskLevel         RiskLevel      `json:"risk_level"`
	RiskConfidence    int            `json:"risk_confidence"`
	RiskReason        string         `json:"risk_reason"`
	CompletenessScore int            `json:"completeness_score"`
	FollowUpStatus    FollowUpStatus `json:"follow_up_status"`
	FollowUpDueDate   time.Time      `json:"follow_up_due_date"`
	ReporterType      ReporterType   `json:"reporter_type"`
	Country           string         `json:"country"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// FollowUp represents one follow-up request sent to a patient or clinician.
type FollowUp struct {
	ID               string         `json:"id"`
	CaseID           string         `json:"case_id"`
	RecipientType    ReporterType   `json:"recipient_type"`
	Status           FollowUpStatus `json:"status"`
	SentAt           *time.Time     `json:"sent_at,omitempty"`
	RespondedAt      *time.Time     `json:"responded_at,omitempty"`
	QuestionsSent    []string       `json:"questions_sent"`
	QuestionsRemoved int            `json:"questions_removed_by_ai"`
	AccessToken      string         `json:"access_token"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FollowUpResponse is one answer tied to one question within one follow-up
// session. The question text is denormalized so stored responses stay
// readable if the catalog changes between versions.
type FollowUpResponse struct {
	ID           string    `json:"id"`
	FollowUpID   string    `json:"follow_up_id"`
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Response     *string   `json:"response,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClinicalOutcome is the outcome reported on the clinician follow-up form.
type ClinicalOutcome string

const (
	OutcomeRecovering            ClinicalOutcome = "Recovering"
	OutcomeRecovered             ClinicalOutcome = "Recovered"
	OutcomeNotRecovered          ClinicalOutcome = "Not Recovered"
	OutcomeRecoveredWithSequelae ClinicalOutcome = "Recovered with Sequelae"
	OutcomeFatal                 ClinicalOutcome = "Fatal"
	OutcomeUnknown               ClinicalOutcome = "Unknown"
)

// Causality is the clinician's causality assessment.
type Causality string

const (
	CausalityDefinite     Causality = "Definite"
	CausalityProbable     Causality = "Probable"
	CausalityPossible     Causality = "Possible"
	CausalityUnlikely     Causality = "Unlikely"
	CausalityConditional  Causality = "Conditional"
	CausalityUnassessable Causality = "Unassessable"
)

// ClinicalReview is the structured clinical follow-up submitted by an HCP.
type ClinicalReview struct {
	ID                 string          `json:"id"`
	CaseID             string          `json:"case_id"`
	ClinicalAssessment string          `json:"clinical_assessment"`
	DiagnosisCode      *string         `json:"diagnosis_code,omitempty"`
	Treatment          string          `json:"treatment"`
	LabResults         *string         `json:"lab_results,omitempty"`
	Outcome            ClinicalOutcome `json:"outcome"`
	Causality          *Causality      `json:"causality,omitempty"`
	FurtherFollowUp    bool            `json:"further_follow_up"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Report represents a generated case summary archived in blob storage.
type Report struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"case_id"`
	FilePath    string    `json:"file_path"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}
