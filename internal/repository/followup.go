package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// FollowUpRepository manages follow-up requests and their responses
type FollowUpRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewFollowUpRepository creates a new FollowUpRepository
func NewFollowUpRepository(db *pgxpool.Pool, logger *zap.Logger) *FollowUpRepository {
	return &FollowUpRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new follow-up request
func (r *FollowUpRepository) Create(ctx context.Context, fu *model.FollowUp) error {
	query := `
		INSERT INTO follow_ups (
			id, case_id, recipient_type, status, sent_at, responded_at,
			questions_sent, questions_removed_by_ai, access_token, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		fu.ID,
		fu.CaseID,
		fu.RecipientType,
		fu.Status,
		fu.SentAt,
		fu.RespondedAt,
		fu.QuestionsSent,
		fu.QuestionsRemoved,
		fu.AccessToken,
	).Scan(&fu.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create follow-up",
			zap.Error(err),
			zap.String("follow_up_id", fu.ID),
			zap.String("case_id", fu.CaseID),
		)
		return fmt.Errorf("failed to create follow-up: %w", err)
	}

	return nil
}

const followUpColumns = `
	id, case_id, recipient_type, status, sent_at, responded_at,
	questions_sent, questions_removed_by_ai, access_token, created_at
`

func scanFollowUp(row pgx.Row) (*model.FollowUp, error) {
	var fu model.FollowUp
	err := row.Scan(
		&fu.ID,
		&fu.CaseID,
		&fu.RecipientType,
		&fu.Status,
		&fu.SentAt,
		&fu.RespondedAt,
		&fu.QuestionsSent,
		&fu.QuestionsRemoved,
		&fu.AccessToken,
		&fu.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fu, nil
}

// GetByToken retrieves a follow-up by its access token
func (r *FollowUpRepository) GetByToken(ctx context.Context, token string) (*model.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE access_token = $1`

	fu, err := scanFollowUp(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("follow-up not found")
		}
		r.logger.Error("failed to get follow-up by token", zap.Error(err))
		return nil, fmt.Errorf("failed to get follow-up: %w", err)
	}

	return fu, nil
}

// ListByCase retrieves the follow-ups for a case, newest first
func (r *FollowUpRepository) ListByCase(ctx context.Context, caseID string) ([]model.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE case_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		r.logger.Error("failed to list follow-ups", zap.Error(err), zap.String("case_id", caseID))
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	defer rows.Close()

	var followUps []model.FollowUp
	for rows.Next() {
		fu, err := scanFollowUp(rows)
		if err != nil {
			r.logger.Error("failed to scan follow-up", zap.Error(err))
			continue
		}
		followUps = append(followUps, *fu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow-ups: %w", err)
	}

	return followUps, nil
}

// UpdateStatus sets the status of a follow-up, stamping responded_at when
// the follow-up moves to Responded.
func (r *FollowUpRepository) UpdateStatus(ctx context.Context, followUpID string, status model.FollowUpStatus, respondedAt *time.Time) error {
	query := `
		UPDATE follow_ups
		SET status = $1, responded_at = COALESCE($2, responded_at)
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, status, respondedAt, followUpID)
	if err != nil {
		r.logger.Error("failed to update follow-up status",
			zap.Error(err),
			zap.String("follow_up_id", followUpID),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("failed to update follow-up status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("follow-up not found: %s", followUpID)
	}

	return nil
}

// ExpireByCases marks the open follow-ups of the given cases Expired,
// mirroring the case-level sweep.
func (r *FollowUpRepository) ExpireByCases(ctx context.Context, caseIDs []string) error {
	if len(caseIDs) == 0 {
		return nil
	}

	query := `
		UPDATE follow_ups
		SET status = 'Expired'
		WHERE case_id = ANY($1)
		  AND status NOT IN ('Complete', 'Expired')
	`

	if _, err := r.db.Exec(ctx, query, caseIDs); err != nil {
		r.logger.Error("failed to expire follow-ups", zap.Error(err), zap.Int("cases", len(caseIDs)))
		return fmt.Errorf("failed to expire follow-ups: %w", err)
	}

	return nil
}

// SaveResponses persists the answers collected in one follow-up session
func (r *FollowUpRepository) SaveResponses(ctx context.Context, responses []model.FollowUpResponse) error {
	query := `
		INSERT INTO follow_up_responses (id, follow_up_id, question_id, question_text, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, resp := range responses {
		_, err := r.db.Exec(ctx, query,
			resp.ID,
			resp.FollowUpID,
			resp.QuestionID,
			resp.QuestionText,
			resp.Response,
			resp.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to save follow-up response",
				zap.Error(err),
				zap.String("follow_up_id", resp.FollowUpID),
				zap.String("question_id", resp.QuestionID),
			)
			return fmt.Errorf("failed to save follow-up response: %w", err)
		}
	}

	return nil
}

// GetResponses retrieves all responses for a follow-up in answer order
func (r *FollowUpRepository) GetResponses(ctx context.Context, followUpID string) ([]model.FollowUpResponse, error) {
	query := `
		SELECT id, follow_up_id, question_id, question_text, response, created_at
		FROM follow_up_responses
		WHERE follow_up_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, followUpID)
	if err != nil {
		r.logger.Error("failed to get follow-up responses", zap.Error(err), zap.String("follow_up_id", followUpID))
		return nil, fmt.Errorf("failed to get follow-up responses: %w", err)
	}
	defer rows.Close()

	var responses []model.FollowUpResponse
	for rows.Next() {
		var resp model.FollowUpResponse
		err := rows.Scan(
			&resp.ID,
			&resp.FollowUpID,
			&resp.QuestionID,
			&resp.QuestionText,
			&resp.Response,
			&resp.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan follow-up response", zap.Error(err))
			continue
		}
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow-up responses: %w", err)
	}

	return responses, nil
}

// SaveClinicalReview persists a clinician follow-up submission
func (r *FollowUpRepository) SaveClinicalReview(ctx context.Context, review *model.ClinicalReview) error {
	query := `
		INSERT INTO clinical_reviews (
			id, case_id, clinical_assessment, diagnosis_code, treatment,
			lab_results, outcome, causality, further_follow_up, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.CaseID,
		review.ClinicalAssessment,
		review.DiagnosisCode,
		review.Treatment,
		review.LabResults,
		review.Outcome,
		review.Causality,
		review.FurtherFollowUp,
	).Scan(&review.CreatedAt)

	if err != nil {
		r.logger.Error("failed to save clinical review",
			zap.Error(err),
			zap.String("review_id", review.ID),
			zap.String("case_id", review.CaseID),
		)
		return fmt.Errorf("failed to save clinical review: %w", err)
	}

	return nil
}

// GetClinicalReview retrieves the most recent clinical review for a case.
// Returns (nil, nil) when no review has been submitted yet.
func (r *FollowUpRepository) GetClinicalReview(ctx context.Context, caseID string) (*model.ClinicalReview, error) {
	query := `
		SELECT id, case_id, clinical_assessment, diagnosis_code, treatment,
			lab_results, outcome, causality, further_follow_up, created_at
		FROM clinical_reviews
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var review model.ClinicalReview
	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&review.ID,
		&review.CaseID,
		&review.ClinicalAssessment,
		&review.DiagnosisCode,
		&review.Treatment,
		&review.LabResults,
		&review.Outcome,
		&review.Causality,
		&review.FurtherFollowUp,
		&review.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to get clinical review", zap.Error(err), zap.String("case_id", caseID))
		return nil, fmt.Errorf("failed to get clinical review: %w", err)
	}

	return &review, nil
}
