package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avaliafacil/feedback/internal/feedback/db"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/metrics"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/avaliafacil/feedback/internal/feedback/notifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles public review ingestion, comment amendment and the
// authenticated review listing.
type ReviewService struct {
	repo     Repository
	producer EventProducer
	notifier ReviewNotifier
	logger   *zap.Logger
}

func NewReviewService(repo Repository, producer EventProducer, n ReviewNotifier, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		producer: producer,
		notifier: n,
		logger:   logger.Named("review_service"),
	}
}

// Submit persists a public review submission. The attendant is resolved by
// display name inside the company and created on first sight; both steps run
// in one transaction with the review insert so concurrent submissions with
// the same name collapse onto a single attendant. The webhook notification
// is queued after commit and never delays the response.
func (s *ReviewService) Submit(ctx context.Context, in *models.ReviewSubmission) (*models.Review, error) {
	if in.CompanySlug == "" {
		return nil, fmt.Errorf("%w: missing company slug", e.ErrInvalidInput)
	}
	if in.Rating < models.MinStars || in.Rating > models.MaxStars {
		return nil, fmt.Errorf("%w: rating out of range", e.ErrInvalidInput)
	}

	company, err := s.repo.GetCompanyBySlug(ctx, in.CompanySlug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}

	name := strings.TrimSpace(in.Attendant)
	if name == "" {
		name = models.DefaultAttendantName
	}

	var (
		attendant        *models.Attendant
		review           *models.Review
		attendantCreated bool
	)
	err = s.repo.WithTransaction(ctx, func(txRepo *db.Repository) error {
		a, err := txRepo.FindAttendantByName(ctx, company.ID, name)
		if errors.Is(err, e.ErrNotFound) {
			a = &models.Attendant{
				ID:        uuid.New(),
				Name:      name,
				CompanyID: company.ID,
				Active:    true,
			}
			createErr := txRepo.CreateAttendant(ctx, a)
			if errors.Is(createErr, e.ErrDuplicateName) {
				// Lost the race to a concurrent submission; reuse its row.
				a, err = txRepo.FindAttendantByName(ctx, company.ID, name)
				if err != nil {
					return err
				}
			} else if createErr != nil {
				return createErr
			} else {
				attendantCreated = true
			}
		} else if err != nil {
			return err
		}
		attendant = a

		review = &models.Review{
			ID:          uuid.New(),
			Stars:       in.Rating,
			Comment:     in.Observation,
			IP:          in.IP,
			City:        in.City,
			State:       in.State,
			Device:      in.Device,
			Location:    in.LinkMaps,
			AttendantID: a.ID,
		}
		return txRepo.CreateReview(ctx, review)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	metrics.ReviewsIngested.WithLabelValues(company.Slug).Inc()

	if attendantCreated {
		go func() {
			s.producer.Produce(events.AttendantCreated, company.ID.String(), attendant)
		}()
	}
	go func() {
		s.producer.Produce(events.ReviewReceived, company.ID.String(), review)
	}()

	s.notifier.Notify(company.Notifications.WebhookURL, notifier.Payload{
		ID:                     review.ID,
		Stars:                  review.Stars,
		Comment:                review.Comment,
		Attendant:              attendant.Name,
		AttendantPhone:         attendant.Phone,
		AttendantSector:        attendant.Sector,
		AttendantNotify:        attendant.Notify,
		AttendantIntegrationID: attendant.IntegrationID,
		Company:                company.Name,
		ClientIP:               review.IP,
		ClientCity:             review.City,
		ClientState:            review.State,
		ClientDevice:           review.Device,
		LocationURL:            review.Location,
		CreatedAt:              review.CreatedAt,
		WhatsappNumbers:        company.Notifications.WhatsappNumbers,
	})

	review.Attendant = attendant
	return review, nil
}

// AmendComment overwrites the comment of an existing review and returns the
// updated record. The rating and creation timestamp are never touched.
func (s *ReviewService) AmendComment(ctx context.Context, id uuid.UUID, comment string) (*models.Review, error) {
	if err := s.repo.UpdateReviewComment(ctx, id, comment); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return s.repo.GetReview(ctx, id)
}

// ListReviews returns one filtered page of the tenant's reviews.
func (s *ReviewService) ListReviews(ctx context.Context, companyID uuid.UUID, filter models.ReviewFilter) ([]models.Review, error) {
	reviews, err := s.repo.ListReviews(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
