package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// ReportRepository manages generated case report records
type ReportRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save persists a report record
func (r *ReportRepository) Save(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, case_id, file_path, generated_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		report.ID,
		report.CaseID,
		report.FilePath,
		report.GeneratedAt,
	).Scan(&report.CreatedAt)

	if err != nil {
		r.logger.Error("failed to save report",
			zap.Error(err),
			zap.String("report_id", report.ID),
			zap.String("case_id", report.CaseID),
		)
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Get retrieves a report by ID
func (r *ReportRepository) Get(ctx context.Context, reportID string) (*model.Report, error) {
	query := `
		SELECT id, case_id, file_path, generated_at, created_at
		FROM reports
		WHERE id = $1
	`

	var report model.Report
	err := r.db.QueryRow(ctx, query, reportID).Scan(
		&report.ID,
		&report.CaseID,
		&report.FilePath,
		&report.GeneratedAt,
		&report.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("report not found: %s", reportID)
		}
		r.logger.Error("failed to get report", zap.Error(err), zap.String("report_id", reportID))
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}
