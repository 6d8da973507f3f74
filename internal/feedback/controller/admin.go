package controller

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CompanyInput is the platform-admin payload for onboarding a tenant.
type CompanyInput struct {
	Name string      `json:"name"`
	Slug string      `json:"slug"`
	Plan models.Plan `json:"plan"`
}

// AdminService serves the cross-tenant operations of the platform admin.
type AdminService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewAdminService(repo Repository, producer EventProducer, logger *zap.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("admin_service"),
	}
}

// Metrics aggregates the platform-wide dashboard numbers.
func (s *AdminService) Metrics(ctx context.Context) (*models.PlatformMetrics, error) {
	companiesTotal, companiesActive, err := s.repo.CountCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	reviewsTotal, err := s.repo.CountReviewsGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	attendantsTotal, attendantsActive, err := s.repo.CountAttendantsGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendants: %w", err)
	}
	byPlan, err := s.repo.CountCompaniesByPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group companies by plan: %w", err)
	}

	return &models.PlatformMetrics{
		Companies:  models.PlatformCounter{Total: companiesTotal, Active: companiesActive},
		Reviews:    models.PlatformTotal{Total: reviewsTotal},
		Attendants: models.PlatformCounter{Total: attendantsTotal, Active: attendantsActive},
		ByPlan:     byPlan,
	}, nil
}

// ListCompanies returns every tenant with attendant and review counts.
func (s *AdminService) ListCompanies(ctx context.Context) ([]models.CompanyOverview, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany onboards a tenant. The slug becomes the public routing key
// and must be globally unique.
func (s *AdminService) CreateCompany(ctx context.Context, in *CompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: missing name or slug", e.ErrInvalidInput)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: malformed slug", e.ErrInvalidInput)
	}
	plan := in.Plan
	if plan == "" {
		plan = models.PlanGratis
	}
	if !validPlan(plan) {
		return nil, fmt.Errorf("%w: unknown plan", e.ErrInvalidInput)
	}

	company := &models.Company{
		ID:     uuid.New(),
		Name:   name,
		Slug:   slug,
		Plan:   plan,
		Active: true,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyCreated, company.ID.String(), company)
	}()
	return company, nil
}

// UpdateCompany changes the name, plan or active flag of a tenant.
func (s *AdminService) UpdateCompany(ctx context.Context, id uuid.UUID, name *string, plan *models.Plan, active *bool) (*models.Company, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if plan != nil && !validPlan(*plan) {
		return nil, fmt.Errorf("%w: unknown plan", e.ErrInvalidInput)
	}

	update := &models.CompanyUpdate{
		ID:     id,
		Name:   name,
		Plan:   plan,
		Active: active,
	}
	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, id.String(), company)
	}()
	return company, nil
}

func validPlan(p models.Plan) bool {
	switch p {
	case models.PlanGratis, models.PlanPequenas, models.PlanGrandes:
		return true
	default:
		return false
	}
}
