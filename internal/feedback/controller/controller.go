// Package controller implements the business logic of the feedback
// platform: tenant resolution, review ingestion, dashboard aggregation,
// plan-limit gating and account management. Services orchestrate the
// repository and hand side effects (events, webhooks) to asynchronous
// collaborators.
package controller

import (
	"context"
	"time"

	"github.com/avaliafacil/feedback/internal/feedback/db"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/avaliafacil/feedback/internal/feedback/notifier"
	"github.com/google/uuid"
)

// Repository defines the storage interface consumed by the services.
// Transactional sequences receive the concrete repository so that multi-step
// writes (find-or-create, quota gate) commit atomically.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	ListCompanies(ctx context.Context) ([]models.CompanyOverview, error)
	CountCompanies(ctx context.Context) (total, active int64, err error)
	CountCompaniesByPlan(ctx context.Context) ([]models.PlanCount, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserInCompany(ctx context.Context, id, companyID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, companyID uuid.UUID) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error
	CountUsers(ctx context.Context) (int64, error)

	CreateAttendant(ctx context.Context, attendant *models.Attendant) error
	GetAttendant(ctx context.Context, id uuid.UUID) (*models.Attendant, error)
	FindAttendantByName(ctx context.Context, companyID uuid.UUID, name string) (*models.Attendant, error)
	CountAttendants(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountAttendantsGlobal(ctx context.Context) (total, active int64, err error)
	ListAttendants(ctx context.Context, companyID uuid.UUID) ([]models.Attendant, error)
	ListAttendantStats(ctx context.Context, companyID uuid.UUID) ([]models.AttendantStats, error)
	DeleteAttendant(ctx context.Context, id, companyID uuid.UUID) error

	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	UpdateReviewComment(ctx context.Context, id uuid.UUID, comment string) error
	CountReviews(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountReviewsGlobal(ctx context.Context) (int64, error)
	CountReviewsWithStars(ctx context.Context, companyID uuid.UUID, stars int) (int64, error)
	CountReviewsAtMost(ctx context.Context, companyID uuid.UUID, stars int) (int64, error)
	AverageStars(ctx context.Context, companyID uuid.UUID) (float64, error)
	ListRecentReviews(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Review, error)
	CountReviewsByState(ctx context.Context, companyID uuid.UUID) ([]models.StateCount, error)
	ListReviewTimesSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]time.Time, error)
	ListReviews(ctx context.Context, companyID uuid.UUID, filter models.ReviewFilter) ([]models.Review, error)

	ListSuggestions(ctx context.Context) ([]models.Suggestion, error)
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	IncrementSuggestionVote(ctx context.Context, id uint, column string) error

	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// EventProducer publishes lifecycle events without blocking the caller.
type EventProducer interface {
	Produce(eventType events.EventType, key string, payload interface{})
}

// ReviewNotifier hands a review notification to the best-effort webhook
// dispatcher. An empty url selects the configured default sink.
type ReviewNotifier interface {
	Notify(url string, payload notifier.Payload)
}
