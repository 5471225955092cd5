package service

import (
	"context"
	"errors"
	"testing"

	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetSummary(t *testing.T) {
	cases := newFakeCaseStore()
	cases.cases["c1"] = &model.Case{ID: "c1", RiskLevel: model.RiskHigh, FollowUpStatus: model.FollowUpPending}
	cases.cases["c2"] = &model.Case{ID: "c2", RiskLevel: model.RiskCritical, FollowUpStatus: model.FollowUpSent}
	cases.cases["c3"] = &model.Case{ID: "c3", RiskLevel: model.RiskMedium, FollowUpStatus: model.FollowUpComplete}
	cases.cases["c4"] = &model.Case{ID: "c4", RiskLevel: model.RiskMedium, FollowUpStatus: model.FollowUpViewed}

	svc := NewDashboardService(cases, zap.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.HighRisk)
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 1, summary.Complete)
}

func TestGetSummary_EmptyStore(t *testing.T) {
	svc := NewDashboardService(newFakeCaseStore(), zap.NewNop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardSummary{}, summary)
}

func TestGetSummary_StoreFailure(t *testing.T) {
	cases := newFakeCaseStore()
	cases.listErr = errors.New("connection reset")

	svc := NewDashboardService(cases, zap.NewNop())

	_, err := svc.GetSummary(context.Background())
	assert.Error(t, err)
}

func TestListCases_UnknownFilterFallsBackToAll(t *testing.T) {
	cases := newFakeCaseStore()
	cases.cases["c1"] = &model.Case{ID: "c1"}

	svc := NewDashboardService(cases, zap.NewNop())

	listed, err := svc.ListCases(context.Background(), repository.Filter("bogus"))
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
