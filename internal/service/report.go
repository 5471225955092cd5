package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safetylink/pv-backend/internal/pdf"
	"github.com/safetylink/pv-backend/internal/storage"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// reportArchivePrefix is the folder case reports live under in the
// blob container. The full blob name is
// <prefix>/<case number>-<report id>.pdf.
const reportArchivePrefix = "case-reports"

// ReportService generates archivable PDF summaries of cases
type ReportService struct {
	cases     CaseStore
	followUps FollowUpStore
	trail     AuditTrail
	reports   ReportStore
	blobStore storage.BlobStore
	pdfGen    *pdf.PDFGenerator
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	cases CaseStore,
	followUps FollowUpStore,
	trail AuditTrail,
	reports ReportStore,
	blobStore storage.BlobStore,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		cases:     cases,
		followUps: followUps,
		trail:     trail,
		reports:   reports,
		blobStore: blobStore,
		pdfGen:    pdfGen,
		logger:    logger,
	}
}

// GenerateReport builds a case summary PDF, archives it in blob storage
// and records the report. Returns the report ID.
func (s *ReportService) GenerateReport(ctx context.Context, caseID string) (string, error) {
	s.logger.Info("generating case report",
		zap.String("case_id", caseID),
	)

	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to get case for report",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		return "", caseLookupError(err)
	}

	followUps, err := s.followUps.ListByCase(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to get follow-ups for report",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		return "", fmt.Errorf("failed to get follow-ups: %w", err)
	}

	review, err := s.followUps.GetClinicalReview(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to get clinical review for report",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		return "", fmt.Errorf("failed to get clinical review: %w", err)
	}

	trail, err := s.trail.ListByCase(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to get audit trail for report",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		return "", fmt.Errorf("failed to get audit trail: %w", err)
	}

	reportID := uuid.New().String()

	reportData := &pdf.ReportData{
		Case:       c,
		FollowUps:  followUps,
		Review:     review,
		AuditTrail: trail,
	}

	pdfBytes, err := s.pdfGen.Generate(reportData)
	if err != nil {
		s.logger.Error("failed to generate PDF",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("failed to generate PDF: %w", err)
	}

	blobName := fmt.Sprintf("%s/%s-%s.pdf", reportArchivePrefix, c.CaseNumber, reportID)
	blobPath, err := s.blobStore.UploadReport(ctx, blobName, pdfBytes)
	if err != nil {
		s.logger.Error("failed to upload PDF to blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("failed to upload PDF: %w", err)
	}

	report := &model.Report{
		ID:          reportID,
		CaseID:      caseID,
		FilePath:    blobPath,
		GeneratedAt: time.Now(),
	}

	err = s.reports.Save(ctx, report)
	if err != nil {
		s.logger.Error("failed to save report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return "", fmt.Errorf("%w: save report record: %v", ErrPersistence, err)
	}

	s.logger.Info("case report generated successfully",
		zap.String("report_id", reportID),
		zap.String("case_number", c.CaseNumber),
		zap.String("blob_path", blobPath),
	)

	return reportID, nil
}

// GetReport retrieves a report PDF for download
func (s *ReportService) GetReport(ctx context.Context, reportID string) ([]byte, error) {
	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to get report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
	}

	pdfBytes, err := s.blobStore.DownloadReport(ctx, report.FilePath)
	if err != nil {
		s.logger.Error("failed to download PDF from blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.String("blob_path", report.FilePath),
		)
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}

	return pdfBytes, nil
}
