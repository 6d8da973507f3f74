package db

import (
	"context"
	"errors"
	"time"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviewsForCompany scopes a review query to one tenant through the
// attendant relation.
func (r *Repository) reviewsForCompany(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN attendants ON attendants.id = reviews.attendant_id").
		Where("attendants.company_id = ?", companyID)
}

func (r *Repository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *Repository) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	result := r.db.WithContext(ctx).Preload("Attendant").First(&review, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &review, nil
}

// UpdateReviewComment overwrites only the comment column. Stars and the
// creation timestamp are immutable.
func (r *Repository) UpdateReviewComment(ctx context.Context, id uuid.UUID, comment string) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn("comment", comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CountReviews(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	result := r.reviewsForCompany(ctx, companyID).Count(&count)
	return count, result.Error
}

func (r *Repository) CountReviewsGlobal(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count)
	return count, result.Error
}

// CountReviewsWithStars counts scoped reviews at exactly the given rating.
func (r *Repository) CountReviewsWithStars(ctx context.Context, companyID uuid.UUID, stars int) (int64, error) {
	var count int64
	result := r.reviewsForCompany(ctx, companyID).
		Where("reviews.stars = ?", stars).
		Count(&count)
	return count, result.Error
}

// CountReviewsAtMost counts scoped reviews at or below the given rating.
func (r *Repository) CountReviewsAtMost(ctx context.Context, companyID uuid.UUID, stars int) (int64, error) {
	var count int64
	result := r.reviewsForCompany(ctx, companyID).
		Where("reviews.stars <= ?", stars).
		Count(&count)
	return count, result.Error
}

// AverageStars returns the arithmetic mean rating of the tenant, 0 when the
// tenant has no reviews.
func (r *Repository) AverageStars(ctx context.Context, companyID uuid.UUID) (float64, error) {
	var avg *float64
	result := r.reviewsForCompany(ctx, companyID).
		Select("AVG(reviews.stars)").
		Scan(&avg)
	if result.Error != nil {
		return 0, result.Error
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *Repository) ListRecentReviews(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Review, error) {
	var reviews []models.Review
	result := r.db.WithContext(ctx).
		Preload("Attendant").
		Joins("JOIN attendants ON attendants.id = reviews.attendant_id").
		Where("attendants.company_id = ?", companyID).
		Order("reviews.created_at DESC").
		Limit(limit).
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}

// CountReviewsByState groups scoped reviews by non-empty client state.
func (r *Repository) CountReviewsByState(ctx context.Context, companyID uuid.UUID) ([]models.StateCount, error) {
	var counts []models.StateCount
	result := r.reviewsForCompany(ctx, companyID).
		Select("reviews.state AS state, COUNT(reviews.id) AS count").
		Where("reviews.state IS NOT NULL AND reviews.state <> ''").
		Group("reviews.state").
		Order("count DESC").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}
	return counts, nil
}

// ListReviewTimesSince returns the creation timestamps of scoped reviews not
// older than since. Date bucketing happens in the aggregator, which keeps the
// query portable across postgres and the sqlite test driver.
func (r *Repository) ListReviewTimesSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]time.Time, error) {
	var times []time.Time
	result := r.reviewsForCompany(ctx, companyID).
		Where("reviews.created_at >= ?", since).
		Pluck("reviews.created_at", &times)
	if result.Error != nil {
		return nil, result.Error
	}
	return times, nil
}

// ListAttendantStats returns the tenant roster with per-attendant review
// counts.
func (r *Repository) ListAttendantStats(ctx context.Context, companyID uuid.UUID) ([]models.AttendantStats, error) {
	attendants, err := r.ListAttendants(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stats := make([]models.AttendantStats, 0, len(attendants))
	for _, a := range attendants {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Review{}).
			Where("attendant_id = ?", a.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		stats = append(stats, models.AttendantStats{Attendant: a, ReviewCount: count})
	}
	return stats, nil
}

// ListReviews returns one page of scoped reviews, newest first, applying the
// optional filter fields.
func (r *Repository) ListReviews(ctx context.Context, companyID uuid.UUID, filter models.ReviewFilter) ([]models.Review, error) {
	if filter.Limit <= 0 {
		filter.Limit = 30
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	query := r.db.WithContext(ctx).
		Preload("Attendant").
		Joins("JOIN attendants ON attendants.id = reviews.attendant_id").
		Where("attendants.company_id = ?", companyID)

	if filter.StartDate != nil {
		query = query.Where("reviews.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("reviews.created_at <= ?", *filter.EndDate)
	}
	if filter.MinStars > 0 {
		query = query.Where("reviews.stars >= ?", filter.MinStars)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(attendants.name) LIKE LOWER(?) OR LOWER(reviews.city) LIKE LOWER(?) OR LOWER(reviews.comment) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var reviews []models.Review
	result := query.
		Order("reviews.created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return reviews, nil
}
