package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avaliafacil/feedback/internal/feedback/db"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"github.com/avaliafacil/feedback/internal/feedback/notifier"
)

// setupRepo builds a real repository over in-memory SQLite. Transactional
// paths (review submission, quota gate) are exercised against it instead of
// mocks.
func setupRepo(t *testing.T) *db.Repository {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")
	return db.NewWithDB(gdb)
}

// mockRepository implements Repository through overridable function fields.
// Unset getters report ErrNotFound; unset counters report zero.
type mockRepository struct {
	CreateCompanyFn        func(ctx context.Context, company *models.Company) error
	GetCompanyFn           func(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyBySlugFn     func(ctx context.Context, slug string) (*models.Company, error)
	UpdateCompanyFn        func(ctx context.Context, update *models.CompanyUpdate) error
	ListCompaniesFn        func(ctx context.Context) ([]models.CompanyOverview, error)
	CountCompaniesFn       func(ctx context.Context) (int64, int64, error)
	CountCompaniesByPlanFn func(ctx context.Context) ([]models.PlanCount, error)

	CreateUserFn         func(ctx context.Context, user *models.User) error
	GetUserFn            func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	GetUserInCompanyFn   func(ctx context.Context, id, companyID uuid.UUID) (*models.User, error)
	ListUsersFn          func(ctx context.Context, companyID uuid.UUID) ([]models.User, error)
	UpdateUserPasswordFn func(ctx context.Context, id uuid.UUID, hash string) error
	CountUsersFn         func(ctx context.Context) (int64, error)

	CreateAttendantFn       func(ctx context.Context, attendant *models.Attendant) error
	GetAttendantFn          func(ctx context.Context, id uuid.UUID) (*models.Attendant, error)
	FindAttendantByNameFn   func(ctx context.Context, companyID uuid.UUID, name string) (*models.Attendant, error)
	CountAttendantsFn       func(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountAttendantsGlobalFn func(ctx context.Context) (int64, int64, error)
	ListAttendantsFn        func(ctx context.Context, companyID uuid.UUID) ([]models.Attendant, error)
	ListAttendantStatsFn    func(ctx context.Context, companyID uuid.UUID) ([]models.AttendantStats, error)
	DeleteAttendantFn       func(ctx context.Context, id, companyID uuid.UUID) error

	CreateReviewFn          func(ctx context.Context, review *models.Review) error
	GetReviewFn             func(ctx context.Context, id uuid.UUID) (*models.Review, error)
	UpdateReviewCommentFn   func(ctx context.Context, id uuid.UUID, comment string) error
	CountReviewsFn          func(ctx context.Context, companyID uuid.UUID) (int64, error)
	CountReviewsGlobalFn    func(ctx context.Context) (int64, error)
	CountReviewsWithStarsFn func(ctx context.Context, companyID uuid.UUID, stars int) (int64, error)
	CountReviewsAtMostFn    func(ctx context.Context, companyID uuid.UUID, stars int) (int64, error)
	AverageStarsFn          func(ctx context.Context, companyID uuid.UUID) (float64, error)
	ListRecentReviewsFn     func(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Review, error)
	CountReviewsByStateFn   func(ctx context.Context, companyID uuid.UUID) ([]models.StateCount, error)
	ListReviewTimesSinceFn  func(ctx context.Context, companyID uuid.UUID, since time.Time) ([]time.Time, error)
	ListReviewsFn           func(ctx context.Context, companyID uuid.UUID, filter models.ReviewFilter) ([]models.Review, error)

	ListSuggestionsFn         func(ctx context.Context) ([]models.Suggestion, error)
	CreateSuggestionFn        func(ctx context.Context, suggestion *models.Suggestion) error
	IncrementSuggestionVoteFn func(ctx context.Context, id uint, column string) error

	WithTransactionFn func(ctx context.Context, fn func(repo *db.Repository) error) error
}

func (m *mockRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	if m.CreateCompanyFn == nil {
		return nil
	}
	return m.CreateCompanyFn(ctx, company)
}

func (m *mockRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if m.GetCompanyFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetCompanyFn(ctx, id)
}

func (m *mockRepository) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	if m.GetCompanyBySlugFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetCompanyBySlugFn(ctx, slug)
}

func (m *mockRepository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	if m.UpdateCompanyFn == nil {
		return nil
	}
	return m.UpdateCompanyFn(ctx, update)
}

func (m *mockRepository) ListCompanies(ctx context.Context) ([]models.CompanyOverview, error) {
	if m.ListCompaniesFn == nil {
		return nil, nil
	}
	return m.ListCompaniesFn(ctx)
}

func (m *mockRepository) CountCompanies(ctx context.Context) (int64, int64, error) {
	if m.CountCompaniesFn == nil {
		return 0, 0, nil
	}
	return m.CountCompaniesFn(ctx)
}

func (m *mockRepository) CountCompaniesByPlan(ctx context.Context) ([]models.PlanCount, error) {
	if m.CountCompaniesByPlanFn == nil {
		return nil, nil
	}
	return m.CountCompaniesByPlanFn(ctx)
}

func (m *mockRepository) CreateUser(ctx context.Context, user *models.User) error {
	if m.CreateUserFn == nil {
		return nil
	}
	return m.CreateUserFn(ctx, user)
}

func (m *mockRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetUserFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetUserFn(ctx, id)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetUserByEmailFn(ctx, email)
}

func (m *mockRepository) GetUserInCompany(ctx context.Context, id, companyID uuid.UUID) (*models.User, error) {
	if m.GetUserInCompanyFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetUserInCompanyFn(ctx, id, companyID)
}

func (m *mockRepository) ListUsers(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	if m.ListUsersFn == nil {
		return nil, nil
	}
	return m.ListUsersFn(ctx, companyID)
}

func (m *mockRepository) UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	if m.UpdateUserPasswordFn == nil {
		return nil
	}
	return m.UpdateUserPasswordFn(ctx, id, hash)
}

func (m *mockRepository) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersFn == nil {
		return 0, nil
	}
	return m.CountUsersFn(ctx)
}

func (m *mockRepository) CreateAttendant(ctx context.Context, attendant *models.Attendant) error {
	if m.CreateAttendantFn == nil {
		return nil
	}
	return m.CreateAttendantFn(ctx, attendant)
}

func (m *mockRepository) GetAttendant(ctx context.Context, id uuid.UUID) (*models.Attendant, error) {
	if m.GetAttendantFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetAttendantFn(ctx, id)
}

func (m *mockRepository) FindAttendantByName(ctx context.Context, companyID uuid.UUID, name string) (*models.Attendant, error) {
	if m.FindAttendantByNameFn == nil {
		return nil, e.ErrNotFound
	}
	return m.FindAttendantByNameFn(ctx, companyID, name)
}

func (m *mockRepository) CountAttendants(ctx context.Context, companyID uuid.UUID) (int64, error) {
	if m.CountAttendantsFn == nil {
		return 0, nil
	}
	return m.CountAttendantsFn(ctx, companyID)
}

func (m *mockRepository) CountAttendantsGlobal(ctx context.Context) (int64, int64, error) {
	if m.CountAttendantsGlobalFn == nil {
		return 0, 0, nil
	}
	return m.CountAttendantsGlobalFn(ctx)
}

func (m *mockRepository) ListAttendants(ctx context.Context, companyID uuid.UUID) ([]models.Attendant, error) {
	if m.ListAttendantsFn == nil {
		return nil, nil
	}
	return m.ListAttendantsFn(ctx, companyID)
}

func (m *mockRepository) ListAttendantStats(ctx context.Context, companyID uuid.UUID) ([]models.AttendantStats, error) {
	if m.ListAttendantStatsFn == nil {
		return nil, nil
	}
	return m.ListAttendantStatsFn(ctx, companyID)
}

func (m *mockRepository) DeleteAttendant(ctx context.Context, id, companyID uuid.UUID) error {
	if m.DeleteAttendantFn == nil {
		return nil
	}
	return m.DeleteAttendantFn(ctx, id, companyID)
}

func (m *mockRepository) CreateReview(ctx context.Context, review *models.Review) error {
	if m.CreateReviewFn == nil {
		return nil
	}
	return m.CreateReviewFn(ctx, review)
}

func (m *mockRepository) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if m.GetReviewFn == nil {
		return nil, e.ErrNotFound
	}
	return m.GetReviewFn(ctx, id)
}

func (m *mockRepository) UpdateReviewComment(ctx context.Context, id uuid.UUID, comment string) error {
	if m.UpdateReviewCommentFn == nil {
		return nil
	}
	return m.UpdateReviewCommentFn(ctx, id, comment)
}

func (m *mockRepository) CountReviews(ctx context.Context, companyID uuid.UUID) (int64, error) {
	if m.CountReviewsFn == nil {
		return 0, nil
	}
	return m.CountReviewsFn(ctx, companyID)
}

func (m *mockRepository) CountReviewsGlobal(ctx context.Context) (int64, error) {
	if m.CountReviewsGlobalFn == nil {
		return 0, nil
	}
	return m.CountReviewsGlobalFn(ctx)
}

func (m *mockRepository) CountReviewsWithStars(ctx context.Context, companyID uuid.UUID, stars int) (int64, error) {
	if m.CountReviewsWithStarsFn == nil {
		return 0, nil
	}
	return m.CountReviewsWithStarsFn(ctx, companyID, stars)
}

func (m *mockRepository) CountReviewsAtMost(ctx context.Context, companyID uuid.UUID, stars int) (int64, error) {
	if m.CountReviewsAtMostFn == nil {
		return 0, nil
	}
	return m.CountReviewsAtMostFn(ctx, companyID, stars)
}

func (m *mockRepository) AverageStars(ctx context.Context, companyID uuid.UUID) (float64, error) {
	if m.AverageStarsFn == nil {
		return 0, nil
	}
	return m.AverageStarsFn(ctx, companyID)
}

func (m *mockRepository) ListRecentReviews(ctx context.Context, companyID uuid.UUID, limit int) ([]models.Review, error) {
	if m.ListRecentReviewsFn == nil {
		return nil, nil
	}
	return m.ListRecentReviewsFn(ctx, companyID, limit)
}

func (m *mockRepository) CountReviewsByState(ctx context.Context, companyID uuid.UUID) ([]models.StateCount, error) {
	if m.CountReviewsByStateFn == nil {
		return nil, nil
	}
	return m.CountReviewsByStateFn(ctx, companyID)
}

func (m *mockRepository) ListReviewTimesSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]time.Time, error) {
	if m.ListReviewTimesSinceFn == nil {
		return nil, nil
	}
	return m.ListReviewTimesSinceFn(ctx, companyID, since)
}

func (m *mockRepository) ListReviews(ctx context.Context, companyID uuid.UUID, filter models.ReviewFilter) ([]models.Review, error) {
	if m.ListReviewsFn == nil {
		return nil, nil
	}
	return m.ListReviewsFn(ctx, companyID, filter)
}

func (m *mockRepository) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	if m.ListSuggestionsFn == nil {
		return nil, nil
	}
	return m.ListSuggestionsFn(ctx)
}

func (m *mockRepository) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if m.CreateSuggestionFn == nil {
		return nil
	}
	return m.CreateSuggestionFn(ctx, suggestion)
}

func (m *mockRepository) IncrementSuggestionVote(ctx context.Context, id uint, column string) error {
	if m.IncrementSuggestionVoteFn == nil {
		return nil
	}
	return m.IncrementSuggestionVoteFn(ctx, id, column)
}

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error {
	if m.WithTransactionFn == nil {
		return nil
	}
	return m.WithTransactionFn(ctx, fn)
}

func (m *mockRepository) Close() error { return nil }

// capturingProducer records produced events for assertions.
type capturingProducer struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingProducer) Produce(eventType events.EventType, key string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events.Event{Type: eventType, Key: key, Payload: payload})
}

func (p *capturingProducer) byType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, ev := range p.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// waitForEvent polls until at least n events of the given type were produced.
// Lifecycle events are published from goroutines off the request path.
func (p *capturingProducer) waitForEvent(t *testing.T, eventType events.EventType, n int) []events.Event {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := p.byType(eventType); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %q events", n, eventType)
	return nil
}

// capturingNotifier records webhook notifications for assertions.
type capturingNotifier struct {
	mu       sync.Mutex
	calls    []string
	payloads []notifier.Payload
}

func (n *capturingNotifier) Notify(url string, payload notifier.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, url)
	n.payloads = append(n.payloads, payload)
}
