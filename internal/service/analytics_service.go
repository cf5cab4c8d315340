package service

import (
	"context"

	"shortkey/internal/models"
	"shortkey/internal/repository"
)

// AnalyticsService aggregates click counts across all codes.
type AnalyticsService interface {
	Summary(ctx context.Context) (*models.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	clicks repository.ClickRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(clicks repository.ClickRepository) AnalyticsService {
	return &analyticsService{clicks: clicks}
}

// Summary returns the total click count and per-code counts. No ordering or
// limit is applied; the full set is returned.
func (s *analyticsService) Summary(ctx context.Context) (*models.AnalyticsSummaryResponse, error) {
	total, err := s.clicks.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.clicks.CountByCode(ctx)
	if err != nil {
		return nil, err
	}

	topURLs := make([]models.CodeClicks, len(counts))
	for i, cc := range counts {
		topURLs[i] = models.CodeClicks{Code: cc.Code, Clicks: cc.Clicks}
	}

	return &models.AnalyticsSummaryResponse{
		TotalClicks: total,
		TopURLs:     topURLs,
	}, nil
}
