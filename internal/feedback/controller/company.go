package controller

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SettingsUpdate is the tenant-editable subset of a company.
type SettingsUpdate struct {
	Name          *string                      `json:"name"`
	PrimaryColor  *string                      `json:"primaryColor"`
	Area          *string                      `json:"area"`
	Whatsapp      *string                      `json:"whatsapp"`
	Logo          *string                      `json:"logo"`
	Settings      *models.JSONMap              `json:"settings"`
	Notifications *models.NotificationSettings `json:"notifications"`
}

// CompanyService serves tenant settings and tenant user management.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// GetSettings returns the caller's company.
func (s *CompanyService) GetSettings(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateSettings applies a partial settings update. Notification settings
// are validated into the fixed schema before hitting storage.
func (s *CompanyService) UpdateSettings(ctx context.Context, companyID uuid.UUID, in *SettingsUpdate) (*models.Company, error) {
	if in.Notifications != nil && in.Notifications.WebhookURL != "" {
		u, err := url.Parse(in.Notifications.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("%w: invalid webhook url", e.ErrInvalidInput)
		}
	}

	update := &models.CompanyUpdate{
		ID:            companyID,
		Name:          in.Name,
		PrimaryColor:  in.PrimaryColor,
		Area:          in.Area,
		Whatsapp:      in.Whatsapp,
		Logo:          in.Logo,
		Settings:      in.Settings,
		Notifications: in.Notifications,
	}
	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, companyID.String(), company)
	}()
	return company, nil
}

// PublicSettings returns the branding a public evaluation page needs. No
// authentication; only non-sensitive fields leave this method.
func (s *CompanyService) PublicSettings(ctx context.Context, slug string) (*models.Company, error) {
	company, err := s.repo.GetCompanyBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListUsers returns the operators of the caller's company.
func (s *CompanyService) ListUsers(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// InviteUser creates an operator inside the caller's company.
func (s *CompanyService) InviteUser(ctx context.Context, companyID uuid.UUID, in *RegisterInput) (*models.User, error) {
	user, err := newUser(in, &companyID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, e.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUserPassword rehashes the password of a user in the caller's
// company. Users outside the tenant are invisible here.
func (s *CompanyService) UpdateUserPassword(ctx context.Context, companyID, userID uuid.UUID, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password too short", e.ErrInvalidInput)
	}

	user, err := s.repo.GetUserInCompany(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
