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

// followUpTransitions lists the legal status moves. Expired is reachable
// from every non-terminal state via the overdue sweep and is handled
// separately.
var followUpTransitions = map[model.FollowUpStatus][]model.FollowUpStatus{
	model.FollowUpPending:   {model.FollowUpSent},
	model.FollowUpSent:      {model.FollowUpViewed},
	model.FollowUpViewed:    {model.FollowUpResponded},
	model.FollowUpResponded: {model.FollowUpComplete},
}

// ValidTransition reports whether a follow-up may move from one status to
// another. Expiry is always allowed except from Complete.
func ValidTransition(from, to model.FollowUpStatus) bool {
	if to == model.FollowUpExpired {
		return from != model.FollowUpComplete && from != model.FollowUpExpired
	}
	for _, next := range followUpTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FollowUpService manages patient follow-up sessions against the static
// question catalog.
type FollowUpService struct {
	followUps FollowUpStore
	cases     CaseStore
	trail     AuditTrail
	logger    *zap.Logger
	now       func() time.Time
}

// NewFollowUpService creates a new FollowUpService
func NewFollowUpService(followUps FollowUpStore, cases CaseStore, trail AuditTrail, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{
		followUps: followUps,
		cases:     cases,
		trail:     trail,
		logger:    logger,
		now:       time.Now,
	}
}

// FollowUpSession bundles a follow-up record with the questionnaire the
// recipient will answer.
type FollowUpSession struct {
	FollowUp  *model.FollowUp
	Questions []Question
	Removed   int
}

// StartFollowUp creates and "sends" a follow-up request for a case. The
// question set is the active subset of the catalog; the removed count is
// kept for the reduced-question-load messaging.
func (s *FollowUpService) StartFollowUp(ctx context.Context, caseID string, recipient model.ReporterType) (*model.FollowUp, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, caseLookupError(err)
	}

	if !ValidTransition(c.FollowUpStatus, model.FollowUpSent) {
		return nil, fmt.Errorf("%w: case %s follow-up is %s, not Pending", ErrValidation, c.CaseNumber, c.FollowUpStatus)
	}

	catalog := QuestionCatalog()
	active := ActiveQuestions(catalog)
	questionIDs := make([]string, 0, len(active))
	for _, q := range active {
		questionIDs = append(questionIDs, q.ID)
	}

	now := s.now()
	fu := &model.FollowUp{
		ID:               uuid.New().String(),
		CaseID:           caseID,
		RecipientType:    recipient,
		Status:           model.FollowUpSent,
		SentAt:           &now,
		QuestionsSent:    questionIDs,
		QuestionsRemoved: RemovedCount(catalog),
		AccessToken:      uuid.New().String(),
	}

	if err := s.followUps.Create(ctx, fu); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.cases.UpdateFollowUpStatus(ctx, caseID, model.FollowUpSent); err != nil {
		s.logger.Error("failed to mirror follow-up status onto case",
			zap.Error(err),
			zap.String("case_id", caseID),
		)
	}

	if err := s.trail.Append(ctx, audit.Entry{
		CaseID:  &caseID,
		Action:  audit.ActionFollowUpSent,
		Role:    audit.RoleSystem,
		ActorID: "follow-up-scheduler",
		Details: map[string]interface{}{
			"recipient_type":    string(recipient),
			"questions_sent":    len(questionIDs),
			"questions_removed": fu.QuestionsRemoved,
		},
	}); err != nil {
		s.logger.Error("audit trail incomplete for follow-up",
			zap.Error(err),
			zap.String("follow_up_id", fu.ID),
		)
	}

	s.logger.Info("follow-up sent",
		zap.String("follow_up_id", fu.ID),
		zap.String("case_id", caseID),
		zap.String("recipient_type", string(recipient)),
		zap.Int("questions_sent", len(questionIDs)),
		zap.Int("questions_removed", fu.QuestionsRemoved),
	)

	return fu, nil
}

// OpenFollowUp resolves an access token to its questionnaire session and
// marks the follow-up Viewed on first open.
func (s *FollowUpService) OpenFollowUp(ctx context.Context, token string) (*FollowUpSession, error) {
	fu, err := s.followUps.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	if fu.Status == model.FollowUpExpired {
		return nil, fmt.Errorf("%w: follow-up has expired", ErrValidation)
	}

	if ValidTransition(fu.Status, model.FollowUpViewed) {
		if err := s.followUps.UpdateStatus(ctx, fu.ID, model.FollowUpViewed, nil); err != nil {
			s.logger.Error("failed to mark follow-up viewed", zap.Error(err), zap.String("follow_up_id", fu.ID))
		} else {
			fu.Status = model.FollowUpViewed
			if err := s.cases.UpdateFollowUpStatus(ctx, fu.CaseID, model.FollowUpViewed); err != nil {
				s.logger.Error("failed to mirror follow-up status onto case", zap.Error(err), zap.String("case_id", fu.CaseID))
			}
		}
	}

	catalog := QuestionCatalog()
	return &FollowUpSession{
		FollowUp:  fu,
		Questions: ActiveQuestions(catalog),
		Removed:   RemovedCount(catalog),
	}, nil
}

// SubmitResponses records the answers for a follow-up session. The session
// must have been opened (Viewed) and every required active question must be
// answered; the follow-up then moves Responded → Complete and the case
// status is mirrored.
func (s *FollowUpService) SubmitResponses(ctx context.Context, token string, answers map[string]string) (*model.FollowUp, error) {
	fu, err := s.followUps.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	if fu.Status == model.FollowUpExpired {
		return nil, fmt.Errorf("%w: follow-up has expired", ErrValidation)
	}
	if fu.Status == model.FollowUpComplete {
		return nil, fmt.Errorf("%w: follow-up already completed", ErrValidation)
	}
	if !ValidTransition(fu.Status, model.FollowUpResponded) {
		return nil, fmt.Errorf("%w: follow-up is %s, responses require an opened session", ErrValidation, fu.Status)
	}

	active := ActiveQuestions(QuestionCatalog())
	if err := ValidateAnswers(active, answers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	var responses []model.FollowUpResponse
	for _, q := range active {
		value, ok := answers[q.ID]
		if !ok || value == "" {
			continue
		}
		v := value
		responses = append(responses, model.FollowUpResponse{
			ID:           uuid.New().String(),
			FollowUpID:   fu.ID,
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Response:     &v,
			CreatedAt:    now,
		})
	}

	if err := s.followUps.SaveResponses(ctx, responses); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.followUps.UpdateStatus(ctx, fu.ID, model.FollowUpResponded, &now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.followUps.UpdateStatus(ctx, fu.ID, model.FollowUpComplete, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	fu.Status = model.FollowUpComplete
	fu.RespondedAt = &now

	if err := s.cases.UpdateFollowUpStatus(ctx, fu.CaseID, model.FollowUpComplete); err != nil {
		s.logger.Error("failed to mirror follow-up status onto case", zap.Error(err), zap.String("case_id", fu.CaseID))
	}

	if err := s.trail.Append(ctx, audit.Entry{
		CaseID:  &fu.CaseID,
		Action:  audit.ActionFollowUpResponses,
		Role:    audit.RoleSystem,
		ActorID: "follow-up-portal",
		Details: map[string]interface{}{
			"follow_up_id": fu.ID,
			"responses":    len(responses),
		},
	}); err != nil {
		s.logger.Error("audit trail incomplete for follow-up responses",
			zap.Error(err),
			zap.String("follow_up_id", fu.ID),
		)
	}

	s.logger.Info("follow-up responses received",
		zap.String("follow_up_id", fu.ID),
		zap.String("case_id", fu.CaseID),
		zap.Int("responses", len(responses)),
	)

	return fu, nil
}

// ExpireOverdue sweeps cases past their follow-up due date that never
// completed, marking them and their open follow-ups Expired. Returns the
// affected case IDs.
func (s *FollowUpService) ExpireOverdue(ctx context.Context) ([]string, error) {
	ids, err := s.cases.ExpireOverdue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if len(ids) > 0 {
		if err := s.followUps.ExpireByCases(ctx, ids); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		s.logger.Info("expired overdue follow-ups", zap.Int("count", len(ids)))
	}

	return ids, nil
}
