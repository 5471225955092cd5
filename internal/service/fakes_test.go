package service

import (
	"context"
	"fmt"
	"time"

	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/pkg/model"
)

// fakeCaseStore is an in-memory CaseStore for service tests
type fakeCaseStore struct {
	cases       map[string]*model.Case
	countErr    error
	insertErr   error
	getErr      error
	listErr     error
	statusCalls []model.FollowUpStatus
}

func newFakeCaseStore() *fakeCaseStore {
	return &fakeCaseStore{cases: make(map[string]*model.Case)}
}

func (f *fakeCaseStore) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.cases), nil
}

func (f *fakeCaseStore) Insert(ctx context.Context, c *model.Case) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	f.cases[c.ID] = &stored
	return nil
}

func (f *fakeCaseStore) Get(ctx context.Context, caseID string) (*model.Case, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrCaseNotFound, caseID)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCaseStore) List(ctx context.Context, filter repository.Filter) ([]model.Case, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Case
	for _, c := range f.cases {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCaseStore) UpdateFollowUpStatus(ctx context.Context, caseID string, status model.FollowUpStatus) error {
	c, ok := f.cases[caseID]
	if !ok {
		return fmt.Errorf("case not found: %s", caseID)
	}
	c.FollowUpStatus = status
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

func (f *fakeCaseStore) UpdateOutcome(ctx context.Context, caseID string, outcome string) error {
	c, ok := f.cases[caseID]
	if !ok {
		return fmt.Errorf("case not found: %s", caseID)
	}
	c.Outcome = &outcome
	return nil
}

func (f *fakeCaseStore) ExpireOverdue(ctx context.Context, now time.Time) ([]string, error) {
	var expired []string
	for id, c := range f.cases {
		if c.FollowUpDueDate.Before(now) && c.FollowUpStatus != model.FollowUpComplete {
			c.FollowUpStatus = model.FollowUpExpired
			expired = append(expired, id)
		}
	}
	return expired, nil
}

// fakeFollowUpStore is an in-memory FollowUpStore for service tests
type fakeFollowUpStore struct {
	followUps map[string]*model.FollowUp // keyed by access token
	responses []model.FollowUpResponse
	reviews   []model.ClinicalReview
	createErr error
	saveErr   error
}

func newFakeFollowUpStore() *fakeFollowUpStore {
	return &fakeFollowUpStore{followUps: make(map[string]*model.FollowUp)}
}

func (f *fakeFollowUpStore) Create(ctx context.Context, fu *model.FollowUp) error {
	if f.createErr != nil {
		return f.createErr
	}
	fu.CreatedAt = time.Now()
	stored := *fu
	f.followUps[fu.AccessToken] = &stored
	return nil
}

func (f *fakeFollowUpStore) GetByToken(ctx context.Context, token string) (*model.FollowUp, error) {
	fu, ok := f.followUps[token]
	if !ok {
		return nil, fmt.Errorf("follow-up not found")
	}
	copied := *fu
	return &copied, nil
}

func (f *fakeFollowUpStore) ListByCase(ctx context.Context, caseID string) ([]model.FollowUp, error) {
	var out []model.FollowUp
	for _, fu := range f.followUps {
		if fu.CaseID == caseID {
			out = append(out, *fu)
		}
	}
	return out, nil
}

func (f *fakeFollowUpStore) UpdateStatus(ctx context.Context, followUpID string, status model.FollowUpStatus, respondedAt *time.Time) error {
	for _, fu := range f.followUps {
		if fu.ID == followUpID {
			fu.Status = status
			if respondedAt != nil {
				fu.RespondedAt = respondedAt
			}
			return nil
		}
	}
	return fmt.Errorf("follow-up not found: %s", followUpID)
}

func (f *fakeFollowUpStore) ExpireByCases(ctx context.Context, caseIDs []string) error {
	for _, fu := range f.followUps {
		for _, id := range caseIDs {
			if fu.CaseID == id && fu.Status != model.FollowUpComplete && fu.Status != model.FollowUpExpired {
				fu.Status = model.FollowUpExpired
			}
		}
	}
	return nil
}

func (f *fakeFollowUpStore) SaveResponses(ctx context.Context, responses []model.FollowUpResponse) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.responses = append(f.responses, responses...)
	return nil
}

func (f *fakeFollowUpStore) GetResponses(ctx context.Context, followUpID string) ([]model.FollowUpResponse, error) {
	var out []model.FollowUpResponse
	for _, r := range f.responses {
		if r.FollowUpID == followUpID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFollowUpStore) SaveClinicalReview(ctx context.Context, review *model.ClinicalReview) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeFollowUpStore) GetClinicalReview(ctx context.Context, caseID string) (*model.ClinicalReview, error) {
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if f.reviews[i].CaseID == caseID {
			copied := f.reviews[i]
			return &copied, nil
		}
	}
	return nil, nil
}

// fakeReportStore is an in-memory ReportStore for service tests
type fakeReportStore struct {
	reports map[string]*model.Report
	saveErr error
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]*model.Report)}
}

func (f *fakeReportStore) Save(ctx context.Context, report *model.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	report.CreatedAt = time.Now()
	stored := *report
	f.reports[report.ID] = &stored
	return nil
}

func (f *fakeReportStore) Get(ctx context.Context, reportID string) (*model.Report, error) {
	r, ok := f.reports[reportID]
	if !ok {
		return nil, fmt.Errorf("report not found: %s", reportID)
	}
	copied := *r
	return &copied, nil
}

// fakeAuditTrail records appended entries in order
type fakeAuditTrail struct {
	entries   []audit.Entry
	appendErr error
}

func (f *fakeAuditTrail) Append(ctx context.Context, entries ...audit.Entry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAuditTrail) ListByCase(ctx context.Context, caseID string) ([]audit.Entry, error) {
	// Newest first, matching the store ordering
	var out []audit.Entry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].CaseID != nil && *f.entries[i].CaseID == caseID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}
