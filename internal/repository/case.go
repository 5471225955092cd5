package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// ErrCaseNotFound marks a lookup for a case that does not exist. Callers
// distinguish it from infrastructure failures with errors.Is.
var ErrCaseNotFound = errors.New("case not found")

// Filter selects a dashboard subset of cases
type Filter string

const (
	FilterAll        Filter = "all"
	FilterHighRisk   Filter = "high-risk"
	FilterIncomplete Filter = "incomplete"
	FilterOverdue    Filter = "overdue"
)

// Cases below this completeness score count as incomplete on the dashboard
const incompleteThreshold = 80

// CaseRepository manages adverse event case records
type CaseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCaseRepository creates a new CaseRepository
func NewCaseRepository(db *pgxpool.Pool, logger *zap.Logger) *CaseRepository {
	return &CaseRepository{
		db:     db,
		logger: logger,
	}
}

// Count returns the current total number of cases
func (r *CaseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count)
	if err != nil {
		r.logger.Error("failed to count cases", zap.Error(err))
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return count, nil
}

// Insert persists a new case. The case_number column carries a UNIQUE
// constraint, so a count-derived collision surfaces here as an error.
func (r *CaseRepository) Insert(ctx context.Context, c *model.Case) error {
	query := `
		INSERT INTO cases (
			id, case_number, patient_name, patient_age, patient_gender,
			event_description, drug_name, event_date, severity, outcome,
			risk_level, risk_confidence, risk_reason, completeness_score,
			follow_up_status, follow_up_due_date, reporter_type, country,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18,
			NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.CaseNumber,
		c.PatientName,
		c.PatientAge,
		c.PatientGender,
		c.EventDescription,
		c.DrugName,
		c.EventDate,
		c.Severity,
		c.Outcome,
		c.RiskLevel,
		c.RiskConfidence,
		c.RiskReason,
		c.CompletenessScore,
		c.FollowUpStatus,
		c.FollowUpDueDate,
		c.ReporterType,
		c.Country,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to insert case",
			zap.Error(err),
			zap.String("case_id", c.ID),
			zap.String("case_number", c.CaseNumber),
		)
		return fmt.Errorf("failed to insert case: %w", err)
	}

	return nil
}

const caseColumns = `
	id, case_number, patient_name, patient_age, patient_gender,
	event_description, drug_name, event_date, severity, outcome,
	risk_level, risk_confidence, risk_reason, completeness_score,
	follow_up_status, follow_up_due_date, reporter_type, country,
	created_at, updated_at
`

func scanCase(row pgx.Row) (*model.Case, error) {
	var c model.Case
	err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.PatientName,
		&c.PatientAge,
		&c.PatientGender,
		&c.EventDescription,
		&c.DrugName,
		&c.EventDate,
		&c.Severity,
		&c.Outcome,
		&c.RiskLevel,
		&c.RiskConfidence,
		&c.RiskReason,
		&c.CompletenessScore,
		&c.FollowUpStatus,
		&c.FollowUpDueDate,
		&c.ReporterType,
		&c.Country,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get retrieves a case by ID
func (r *CaseRepository) Get(ctx context.Context, caseID string) (*model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	c, err := scanCase(r.db.QueryRow(ctx, query, caseID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
		}
		r.logger.Error("failed to get case", zap.Error(err), zap.String("case_id", caseID))
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return c, nil
}

// List retrieves cases matching the given dashboard filter, newest first
func (r *CaseRepository) List(ctx context.Context, filter Filter) ([]model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var args []interface{}

	switch filter {
	case FilterHighRisk:
		query += ` WHERE risk_level IN ('HIGH', 'CRITICAL')`
	case FilterIncomplete:
		query += ` WHERE completeness_score < $1`
		args = append(args, incompleteThreshold)
	case FilterOverdue:
		query += ` WHERE follow_up_due_date < NOW() AND follow_up_status <> 'Complete'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list cases", zap.Error(err), zap.String("filter", string(filter)))
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			r.logger.Error("failed to scan case", zap.Error(err))
			continue
		}
		cases = append(cases, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating cases", zap.Error(err))
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}

	return cases, nil
}

// UpdateFollowUpStatus sets the follow-up status of a case
func (r *CaseRepository) UpdateFollowUpStatus(ctx context.Context, caseID string, status model.FollowUpStatus) error {
	query := `
		UPDATE cases
		SET follow_up_status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, caseID)
	if err != nil {
		r.logger.Error("failed to update follow-up status",
			zap.Error(err),
			zap.String("case_id", caseID),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("failed to update follow-up status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("case not found: %s", caseID)
	}

	return nil
}

// UpdateOutcome sets the case outcome reported on a clinical follow-up
func (r *CaseRepository) UpdateOutcome(ctx context.Context, caseID string, outcome string) error {
	query := `
		UPDATE cases
		SET outcome = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, outcome, caseID)
	if err != nil {
		r.logger.Error("failed to update case outcome",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
		return fmt.Errorf("failed to update case outcome: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("case not found: %s", caseID)
	}

	return nil
}

// ExpireOverdue marks every case past its follow-up due date and not yet
// complete as Expired, and returns the affected case IDs.
func (r *CaseRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		UPDATE cases
		SET follow_up_status = 'Expired', updated_at = NOW()
		WHERE follow_up_due_date < $1
		  AND follow_up_status NOT IN ('Complete', 'Expired')
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.logger.Error("failed to expire overdue cases", zap.Error(err))
		return nil, fmt.Errorf("failed to expire overdue cases: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("failed to scan expired case id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expired cases: %w", err)
	}

	return ids, nil
}
