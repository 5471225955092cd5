package service

import (
	"context"
	"fmt"

	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/pkg/model"
	"go.uber.org/zap"
)

// DashboardService aggregates case statistics for the PV dashboard
type DashboardService struct {
	cases  CaseStore
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(cases CaseStore, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		cases:  cases,
		logger: logger,
	}
}

// DashboardSummary represents the headline case counts
type DashboardSummary struct {
	Total    int `json:"total"`
	HighRisk int `json:"high_risk"`
	Pending  int `json:"pending"`
	Complete int `json:"complete"`
}

// GetSummary computes the dashboard counts over all cases. High risk
// covers both HIGH and CRITICAL tiers; pending covers cases whose
// follow-up has not yet been answered.
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	cases, err := s.cases.List(ctx, repository.FilterAll)
	if err != nil {
		s.logger.Error("failed to load cases for summary", zap.Error(err))
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	summary := &DashboardSummary{Total: len(cases)}
	for _, c := range cases {
		if c.RiskLevel == model.RiskHigh || c.RiskLevel == model.RiskCritical {
			summary.HighRisk++
		}
		switch c.FollowUpStatus {
		case model.FollowUpPending, model.FollowUpSent:
			summary.Pending++
		case model.FollowUpComplete:
			summary.Complete++
		}
	}

	return summary, nil
}

// ListCases retrieves the cases matching a dashboard filter, newest first.
// An unknown filter falls back to listing everything.
func (s *DashboardService) ListCases(ctx context.Context, filter repository.Filter) ([]model.Case, error) {
	switch filter {
	case repository.FilterAll, repository.FilterHighRisk, repository.FilterIncomplete, repository.FilterOverdue:
	default:
		s.logger.Warn("unknown case filter, listing all", zap.String("filter", string(filter)))
		filter = repository.FilterAll
	}

	cases, err := s.cases.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list cases",
			zap.Error(err),
			zap.String("filter", string(filter)),
		)
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	return cases, nil
}
