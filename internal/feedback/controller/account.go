package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avaliafacil/feedback/internal/feedback/auth"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// bcryptCost matches the cost the platform has always hashed with.
const bcryptCost = 10

// RegisterInput is the payload for self-service registration and user
// invitations.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AccountService implements login, registration and the seeding of the
// initial platform admin.
type AccountService struct {
	repo      Repository
	logger    *zap.Logger
	jwtSecret string
}

func NewAccountService(repo Repository, logger *zap.Logger, jwtSecret string) *AccountService {
	return &AccountService{
		repo:      repo,
		logger:    logger.Named("account_service"),
		jwtSecret: jwtSecret,
	}
}

// Login verifies the credentials and mints a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: missing credentials", e.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, e.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user, s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Register creates a user without a company binding. Used by the demo
// sign-up flow; invited users go through CompanyService.InviteUser instead.
func (s *AccountService) Register(ctx context.Context, in *RegisterInput) (*models.User, error) {
	user, err := newUser(in, nil)
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

// EnsureAdmin seeds the initial platform admin when the user table is
// empty. Idempotent across restarts.
func (s *AccountService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := newUser(&RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleSaasAdmin,
	}, nil)
	if err != nil {
		return err
	}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	s.logger.Info("seeded initial platform admin", zap.String("email", email))
	return nil
}

// newUser validates and hashes a registration input into a User row.
func newUser(in *RegisterInput, companyID *uuid.UUID) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", e.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password too short", e.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleGestor
	}

	return &models.User{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		Role:      role,
		CompanyID: companyID,
		Active:    true,
	}, nil
}
