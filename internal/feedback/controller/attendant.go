package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avaliafacil/feedback/internal/feedback/db"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttendantInput is the management payload for creating an attendant.
type AttendantInput struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Sector        string `json:"sector"`
	IntegrationID string `json:"integrationId"`
	Notify        bool   `json:"notify"`
}

// AttendantService manages the attendant roster, enforcing the plan-derived
// ceiling before every explicit creation.
type AttendantService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewAttendantService(repo Repository, producer EventProducer, logger *zap.Logger) *AttendantService {
	return &AttendantService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("attendant_service"),
	}
}

// Create adds an attendant to the company after checking the plan ceiling.
// The count and the insert share one transaction so concurrent creations
// cannot slip past the limit.
func (s *AttendantService) Create(ctx context.Context, companyID uuid.UUID, in *AttendantInput) (*models.Attendant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing attendant name", e.ErrInvalidInput)
	}

	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	limit := company.Plan.AttendantLimit()

	var attendant *models.Attendant
	err = s.repo.WithTransaction(ctx, func(txRepo *db.Repository) error {
		count, err := txRepo.CountAttendants(ctx, companyID)
		if err != nil {
			return err
		}
		if limit >= 0 && count >= int64(limit) {
			return e.ErrQuotaExceeded
		}
		attendant = &models.Attendant{
			ID:            uuid.New(),
			Name:          name,
			Phone:         in.Phone,
			Sector:        in.Sector,
			IntegrationID: in.IntegrationID,
			Notify:        in.Notify,
			Active:        true,
			CompanyID:     companyID,
		}
		return txRepo.CreateAttendant(ctx, attendant)
	})
	if err != nil {
		if errors.Is(err, e.ErrQuotaExceeded) || errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create attendant: %w", err)
	}

	go func() {
		s.producer.Produce(events.AttendantCreated, companyID.String(), attendant)
	}()
	return attendant, nil
}

// List returns the company roster.
func (s *AttendantService) List(ctx context.Context, companyID uuid.UUID) ([]models.Attendant, error) {
	attendants, err := s.repo.ListAttendants(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendants: %w", err)
	}
	return attendants, nil
}

// Delete removes an attendant and cascades to its reviews. The company
// filter keeps the deletion inside the caller's tenant.
func (s *AttendantService) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	if err := s.repo.DeleteAttendant(ctx, id, companyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendant: %w", err)
	}
	return nil
}
