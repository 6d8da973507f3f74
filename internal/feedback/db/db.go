// Package db implements the GORM-backed repository for all feedback
// platform entities. Every tenant-scoped read filters by company id,
// directly or through the attendant relation.
package db

import (
	"context"
	"errors"
	"fmt"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: gdb}, nil
}

// NewWithDB wraps an existing GORM handle. Used by tests and tools that
// manage their own connection.
func NewWithDB(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Migrate applies the schema for all platform entities.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Attendant{},
		&models.Review{},
		&models.Suggestion{},
	)
}

// WithTransaction runs fn inside a single database transaction. The
// find-or-create and quota-gate sequences depend on this to stay atomic
// under concurrent load.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Companies ---

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Plan != nil {
		values["plan"] = *update.Plan
	}
	if update.Active != nil {
		values["active"] = *update.Active
	}
	if update.Logo != nil {
		values["logo"] = *update.Logo
	}
	if update.PrimaryColor != nil {
		values["primary_color"] = *update.PrimaryColor
	}
	if update.Area != nil {
		values["area"] = *update.Area
	}
	if update.Whatsapp != nil {
		values["whatsapp"] = *update.Whatsapp
	}
	if update.Settings != nil {
		values["settings"] = *update.Settings
	}
	if update.Notifications != nil {
		values["notifications"] = *update.Notifications
	}
	if len(values) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListCompanies returns every company with its attendant and review counts,
// newest first. Used only by the platform admin.
func (r *Repository) ListCompanies(ctx context.Context) ([]models.CompanyOverview, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}

	overviews := make([]models.CompanyOverview, 0, len(companies))
	for _, c := range companies {
		var attendants int64
		if err := r.db.WithContext(ctx).Model(&models.Attendant{}).
			Where("company_id = ?", c.ID).
			Count(&attendants).Error; err != nil {
			return nil, err
		}
		reviews, err := r.CountReviews(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, models.CompanyOverview{
			Company:        c,
			AttendantCount: attendants,
			ReviewCount:    reviews,
		})
	}
	return overviews, nil
}

func (r *Repository) CountCompanies(ctx context.Context) (total, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Company{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&models.Company{}).
		Where("active = ?", true).
		Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *Repository) CountCompaniesByPlan(ctx context.Context) ([]models.PlanCount, error) {
	var counts []models.PlanCount
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Select("plan, COUNT(id) AS count").
		Group("plan").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}
	return counts, nil
}

// --- Users ---

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// GetUserInCompany fetches a user only when it belongs to the given company.
func (r *Repository) GetUserInCompany(ctx context.Context, id, companyID uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		First(&user, "id = ? AND company_id = ?", id, companyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Count(&count)
	return count, result.Error
}

// --- Attendants ---

func (r *Repository) CreateAttendant(ctx context.Context, attendant *models.Attendant) error {
	result := r.db.WithContext(ctx).Create(attendant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetAttendant(ctx context.Context, id uuid.UUID) (*models.Attendant, error) {
	var attendant models.Attendant
	result := r.db.WithContext(ctx).First(&attendant, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &attendant, nil
}

// FindAttendantByName looks an attendant up by its display name inside one
// company. Returns ErrNotFound when absent.
func (r *Repository) FindAttendantByName(ctx context.Context, companyID uuid.UUID, name string) (*models.Attendant, error) {
	var attendant models.Attendant
	result := r.db.WithContext(ctx).
		First(&attendant, "company_id = ? AND name = ?", companyID, name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &attendant, nil
}

func (r *Repository) CountAttendants(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Attendant{}).
		Where("company_id = ?", companyID).
		Count(&count)
	return count, result.Error
}

func (r *Repository) CountAttendantsGlobal(ctx context.Context) (total, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Attendant{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&models.Attendant{}).
		Where("active = ?", true).
		Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *Repository) ListAttendants(ctx context.Context, companyID uuid.UUID) ([]models.Attendant, error) {
	var attendants []models.Attendant
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name").
		Find(&attendants)
	if result.Error != nil {
		return nil, result.Error
	}
	return attendants, nil
}

// DeleteAttendant removes an attendant and all of its reviews. The company
// filter keeps the operation inside the caller's tenant.
func (r *Repository) DeleteAttendant(ctx context.Context, id, companyID uuid.UUID) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		var attendant models.Attendant
		result := repo.db.First(&attendant, "id = ? AND company_id = ?", id, companyID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return e.ErrNotFound
			}
			return result.Error
		}
		if err := repo.db.Delete(&models.Review{}, "attendant_id = ?", id).Error; err != nil {
			return err
		}
		return repo.db.Delete(&models.Attendant{}, "id = ?", id).Error
	})
}

// --- Suggestions ---

func (r *Repository) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	result := r.db.WithContext(ctx).Order("likes DESC").Find(&suggestions)
	if result.Error != nil {
		return nil, result.Error
	}
	return suggestions, nil
}

func (r *Repository) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	return r.db.WithContext(ctx).Create(suggestion).Error
}

// IncrementSuggestionVote bumps one vote counter atomically in SQL.
// column must be "likes" or "dislikes".
func (r *Repository) IncrementSuggestionVote(ctx context.Context, id uint, column string) error {
	if column != "likes" && column != "dislikes" {
		return fmt.Errorf("%w: invalid vote column %q", e.ErrInvalidInput, column)
	}
	result := r.db.WithContext(ctx).Model(&models.Suggestion{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
