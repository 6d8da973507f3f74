package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentReviewsLimit bounds the review feed on the dashboard.
const recentReviewsLimit = 100

// trendWindowDays is the size of the trailing trend window.
const trendWindowDays = 30

// DashboardService aggregates tenant metrics. Every query is scoped to the
// resolved company id; no cross-tenant rows can leak through here.
type DashboardService struct {
	repo   Repository
	logger *zap.Logger
}

func NewDashboardService(repo Repository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		logger: logger.Named("dashboard_service"),
	}
}

// Dashboard computes the full dashboard payload for one tenant.
func (s *DashboardService) Dashboard(ctx context.Context, companyID uuid.UUID) (*models.DashboardData, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	total, err := s.repo.CountReviews(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.ListRecentReviews(ctx, companyID, recentReviewsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	nps, err := s.computeNPS(ctx, companyID, total)
	if err != nil {
		return nil, err
	}

	average, err := s.repo.AverageStars(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average: %w", err)
	}

	attendants, err := s.repo.ListAttendantStats(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendants: %w", err)
	}
	activeAttendants := 0
	for _, a := range attendants {
		if a.Active {
			activeAttendants++
		}
	}

	byState, err := s.repo.CountReviewsByState(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to group reviews by state: %w", err)
	}

	trend, err := s.computeTrend(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &models.DashboardData{
		CompanyName: company.Name,
		Plan:        company.Plan,
		Logo:        company.Logo,
		Metrics: models.DashboardMetrics{
			Total:            total,
			Average:          average,
			NPS:              nps,
			ActiveAttendants: activeAttendants,
		},
		Reviews:    reviews,
		Attendants: attendants,
		ByState:    byState,
		Trend:      trend,
	}, nil
}

// computeNPS applies the simplified two-bucket score: promoters are 5-star
// reviews, detractors are at or below 3 stars, 4-star reviews count toward
// neither bucket. Zero when the tenant has no reviews.
func (s *DashboardService) computeNPS(ctx context.Context, companyID uuid.UUID, total int64) (int, error) {
	if total == 0 {
		return 0, nil
	}
	promoters, err := s.repo.CountReviewsWithStars(ctx, companyID, models.MaxStars)
	if err != nil {
		return 0, fmt.Errorf("failed to count promoters: %w", err)
	}
	detractors, err := s.repo.CountReviewsAtMost(ctx, companyID, 3)
	if err != nil {
		return 0, fmt.Errorf("failed to count detractors: %w", err)
	}
	return int(math.Round(float64(promoters-detractors) / float64(total) * 100)), nil
}

// computeTrend buckets the trailing 30 days of reviews by UTC calendar date.
// Days without reviews are omitted.
func (s *DashboardService) computeTrend(ctx context.Context, companyID uuid.UUID) (map[string]int64, error) {
	since := time.Now().UTC().AddDate(0, 0, -trendWindowDays)
	times, err := s.repo.ListReviewTimesSince(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load trend data: %w", err)
	}
	trend := make(map[string]int64, len(times))
	for _, t := range times {
		trend[t.UTC().Format("2006-01-02")]++
	}
	return trend, nil
}
