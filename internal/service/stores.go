package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/pkg/model"
)

// Error taxonomy for the case lifecycle. Handlers map these onto HTTP
// responses with errors.Is; repositories and collaborators wrap their
// failures into one of the three.
var (
	// ErrValidation marks a malformed or incomplete submission
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a failed case-store write. The orchestrator
	// halts on it: no audit entries, no downstream navigation.
	ErrPersistence = errors.New("persistence failed")
	// ErrNotFound marks a lookup for a record that does not exist
	ErrNotFound = errors.New("not found")
)

// caseLookupError maps a case store lookup failure onto the taxonomy: a
// missing case is ErrNotFound, anything else is an infrastructure failure.
func caseLookupError(err error) error {
	if errors.Is(err, repository.ErrCaseNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// CaseStore is the case persistence surface the services depend on.
// *repository.CaseRepository implements it; tests substitute an in-memory
// fake.
type CaseStore interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, c *model.Case) error
	Get(ctx context.Context, caseID string) (*model.Case, error)
	List(ctx context.Context, filter repository.Filter) ([]model.Case, error)
	UpdateFollowUpStatus(ctx context.Context, caseID string, status model.FollowUpStatus) error
	UpdateOutcome(ctx context.Context, caseID string, outcome string) error
	ExpireOverdue(ctx context.Context, now time.Time) ([]string, error)
}

// FollowUpStore is the follow-up persistence surface
type FollowUpStore interface {
	Create(ctx context.Context, fu *model.FollowUp) error
	GetByToken(ctx context.Context, token string) (*model.FollowUp, error)
	ListByCase(ctx context.Context, caseID string) ([]model.FollowUp, error)
	UpdateStatus(ctx context.Context, followUpID string, status model.FollowUpStatus, respondedAt *time.Time) error
	SaveResponses(ctx context.Context, responses []model.FollowUpResponse) error
	GetResponses(ctx context.Context, followUpID string) ([]model.FollowUpResponse, error)
	ExpireByCases(ctx context.Context, caseIDs []string) error
	SaveClinicalReview(ctx context.Context, review *model.ClinicalReview) error
	GetClinicalReview(ctx context.Context, caseID string) (*model.ClinicalReview, error)
}

// AuditTrail is the append-only audit surface. *audit.Trail implements it.
type AuditTrail interface {
	Append(ctx context.Context, entries ...audit.Entry) error
	ListByCase(ctx context.Context, caseID string) ([]audit.Entry, error)
}

// ReportStore persists generated report records
type ReportStore interface {
	Save(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, reportID string) (*model.Report, error)
}
