package controller

import (
	"context"
	"fmt"

	"github.com/avaliafacil/feedback/internal/feedback/auth"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantResolver decides which company a scoped request targets. It is the
// single authorization chokepoint for tenant isolation and must run before
// any tenant-scoped query.
type TenantResolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewTenantResolver(repo Repository, logger *zap.Logger) *TenantResolver {
	return &TenantResolver{
		repo:   repo,
		logger: logger.Named("tenant_resolver"),
	}
}

// Resolve returns the effective company id for the caller. A platform admin
// supplying a slug impersonates that tenant; everyone else is pinned to
// their own company. Callers with no resolvable company get ErrNoTenant.
func (t *TenantResolver) Resolve(ctx context.Context, claims *auth.Claims, slug string) (uuid.UUID, error) {
	if claims == nil {
		return uuid.Nil, e.ErrUnauthorized
	}

	if claims.Role == models.RoleSaasAdmin && slug != "" {
		company, err := t.repo.GetCompanyBySlug(ctx, slug)
		if err != nil {
			return uuid.Nil, err
		}
		t.logger.Info("tenant impersonation",
			zap.String("user_id", claims.UserID),
			zap.String("slug", slug),
		)
		return company.ID, nil
	}

	if claims.CompanyID == "" {
		return uuid.Nil, e.ErrNoTenant
	}
	id, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed company reference", e.ErrNoTenant)
	}
	return id, nil
}
