package service

import (
	"context"
	"testing"

	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validReviewForm() ClinicalReviewForm {
	causality := model.CausalityProbable
	return ClinicalReviewForm{
		ClinicalAssessment: "Symptoms consistent with drug-induced arrhythmia",
		Treatment:          "Drug discontinued, beta blocker started",
		Outcome:            model.OutcomeRecovering,
		Causality:          &causality,
		FurtherFollowUp:    true,
	}
}

func TestSubmitReview(t *testing.T) {
	cases := newFakeCaseStore()
	followUps := newFakeFollowUpStore()
	trail := &fakeAuditTrail{}
	seedCase(cases, model.FollowUpComplete)

	svc := NewClinicalService(followUps, cases, trail, zap.NewNop())

	review, err := svc.SubmitReview(context.Background(), "case-1", validReviewForm())
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "case-1", review.CaseID)

	// The reported outcome lands on the case
	c, _ := cases.Get(context.Background(), "case-1")
	require.NotNil(t, c.Outcome)
	assert.Equal(t, string(model.OutcomeRecovering), *c.Outcome)

	require.Len(t, trail.entries, 1)
	assert.Equal(t, audit.ActionClinicalReview, trail.entries[0].Action)
	assert.Equal(t, audit.RolePV, trail.entries[0].Role)
	assert.Equal(t, "hcp-portal", trail.entries[0].ActorID)
}

func TestSubmitReview_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClinicalReviewForm)
	}{
		{name: "missing assessment", mutate: func(f *ClinicalReviewForm) { f.ClinicalAssessment = "" }},
		{name: "missing treatment", mutate: func(f *ClinicalReviewForm) { f.Treatment = "" }},
		{name: "missing outcome", mutate: func(f *ClinicalReviewForm) { f.Outcome = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := newFakeCaseStore()
			followUps := newFakeFollowUpStore()
			trail := &fakeAuditTrail{}
			seedCase(cases, model.FollowUpComplete)

			svc := NewClinicalService(followUps, cases, trail, zap.NewNop())

			form := validReviewForm()
			tt.mutate(&form)

			_, err := svc.SubmitReview(context.Background(), "case-1", form)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, followUps.reviews)
		})
	}
}

func TestSubmitReview_CaseNotFound(t *testing.T) {
	svc := NewClinicalService(newFakeFollowUpStore(), newFakeCaseStore(), &fakeAuditTrail{}, zap.NewNop())

	_, err := svc.SubmitReview(context.Background(), "missing", validReviewForm())
	assert.ErrorIs(t, err, ErrNotFound)
}
