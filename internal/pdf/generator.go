package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator generates case summary reports for regulatory review
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for case report generation
type ReportData struct {
	Case       *model.Case
	FollowUps  []model.FollowUp
	Review     *model.ClinicalReview
	AuditTrail []audit.Entry
}

// Generate creates a PDF case summary from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating case report PDF",
		zap.String("case_number", data.Case.CaseNumber),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, "Adverse Event Case Report", data.Case.CaseNumber)

	g.addPatientDetails(pdf, data.Case)
	g.addEventDetails(pdf, data.Case)
	g.addRiskAssessment(pdf, data.Case)
	g.addFollowUps(pdf, data.Case, data.FollowUps)
	g.addClinicalReview(pdf, data.Review)
	g.addAuditTrail(pdf, data.AuditTrail)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("case report PDF generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, caseNumber string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Case Number: %s", caseNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addField(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

// addPatientDetails adds the patient demographics section
func (g *PDFGenerator) addPatientDetails(pdf *gofpdf.Fpdf, c *model.Case) {
	g.addSectionHeader(pdf, "Patient Details")

	g.addField(pdf, "Name", c.PatientName)
	if c.PatientAge != nil {
		g.addField(pdf, "Age", fmt.Sprintf("%d", *c.PatientAge))
	}
	if c.PatientGender != nil {
		g.addField(pdf, "Gender", string(*c.PatientGender))
	}
	g.addField(pdf, "Country", c.Country)
	g.addField(pdf, "Reporter Type", string(c.ReporterType))
	pdf.Ln(5)
}

// addEventDetails adds the adverse event section
func (g *PDFGenerator) addEventDetails(pdf *gofpdf.Fpdf, c *model.Case) {
	g.addSectionHeader(pdf, "Adverse Event")

	g.addField(pdf, "Suspect Drug", c.DrugName)
	g.addField(pdf, "Event Date", c.EventDate.Format("2006-01-02"))
	g.addField(pdf, "Severity", string(c.Severity))
	g.addField(pdf, "Description", c.EventDescription)
	if c.Outcome != nil {
		g.addField(pdf, "Outcome", *c.Outcome)
	}
	pdf.Ln(5)
}

// addRiskAssessment adds the automated risk assessment section
func (g *PDFGenerator) addRiskAssessment(pdf *gofpdf.Fpdf, c *model.Case) {
	g.addSectionHeader(pdf, "Risk Assessment")

	g.addField(pdf, "Risk Level", string(c.RiskLevel))
	g.addField(pdf, "Confidence", fmt.Sprintf("%d%%", c.RiskConfidence))
	g.addField(pdf, "Assessment", c.RiskReason)
	g.addField(pdf, "Completeness Score", fmt.Sprintf("%d%%", c.CompletenessScore))
	pdf.Ln(5)
}

// addFollowUps adds the follow-up history section
func (g *PDFGenerator) addFollowUps(pdf *gofpdf.Fpdf, c *model.Case, followUps []model.FollowUp) {
	g.addSectionHeader(pdf, "Follow-Up")

	g.addField(pdf, "Status", string(c.FollowUpStatus))
	g.addField(pdf, "Due Date", c.FollowUpDueDate.Format("2006-01-02"))

	if len(followUps) == 0 {
		pdf.CellFormat(0, 6, "No follow-up requests sent.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, fu := range followUps {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s follow-up (%s)", fu.RecipientType, fu.Status), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Questions sent: %d, removed by screening: %d", len(fu.QuestionsSent), fu.QuestionsRemoved), "", 1, "L", false, 0, "")
		if fu.RespondedAt != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Responded: %s", fu.RespondedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(5)
}

// addClinicalReview adds the clinical review section when one exists
func (g *PDFGenerator) addClinicalReview(pdf *gofpdf.Fpdf, review *model.ClinicalReview) {
	g.addSectionHeader(pdf, "Clinical Review")

	if review == nil {
		pdf.CellFormat(0, 6, "No clinical review submitted.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	g.addField(pdf, "Assessment", review.ClinicalAssessment)
	if review.DiagnosisCode != nil {
		g.addField(pdf, "Diagnosis Code", *review.DiagnosisCode)
	}
	g.addField(pdf, "Treatment", review.Treatment)
	if review.LabResults != nil {
		g.addField(pdf, "Lab Results", *review.LabResults)
	}
	g.addField(pdf, "Outcome", string(review.Outcome))
	if review.Causality != nil {
		g.addField(pdf, "Causality", string(*review.Causality))
	}
	if review.FurtherFollowUp {
		g.addField(pdf, "Further Follow-Up", "Required")
	}
	pdf.Ln(5)
}

// addAuditTrail adds the audit trail section
func (g *PDFGenerator) addAuditTrail(pdf *gofpdf.Fpdf, entries []audit.Entry) {
	g.addSectionHeader(pdf, "Audit Trail")

	if len(entries) == 0 {
		pdf.CellFormat(0, 6, "No audit entries recorded.", "", 1, "L", false, 0, "")
		return
	}

	for _, entry := range entries {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Actor: %s (%s)", entry.ActorID, entry.Role), "", 1, "L", false, 0, "")
		if entry.IPAddress != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Origin: %s", entry.IPAddress), "", 1, "L", false, 0, "")
		}
	}
}
