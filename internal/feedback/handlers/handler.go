package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/avaliafacil/feedback/internal/feedback/auth"
	"github.com/avaliafacil/feedback/internal/feedback/controller"
	"github.com/avaliafacil/feedback/internal/feedback/metrics"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	accounts    *controller.AccountService
	reviews     *controller.ReviewService
	dashboard   *controller.DashboardService
	attendants  *controller.AttendantService
	companies   *controller.CompanyService
	admin       *controller.AdminService
	suggestions *controller.SuggestionService
	resolver    *controller.TenantResolver
	logger      *zap.Logger
	jwtSecret   string
}

// NewHandler constructs the HTTP handler over the service layer.
func NewHandler(
	accounts *controller.AccountService,
	reviews *controller.ReviewService,
	dashboard *controller.DashboardService,
	attendants *controller.AttendantService,
	companies *controller.CompanyService,
	admin *controller.AdminService,
	suggestions *controller.SuggestionService,
	resolver *controller.TenantResolver,
	logger *zap.Logger,
	jwtSecret string,
) *Handler {
	return &Handler{
		accounts:    accounts,
		reviews:     reviews,
		dashboard:   dashboard,
		attendants:  attendants,
		companies:   companies,
		admin:       admin,
		suggestions: suggestions,
		resolver:    resolver,
		logger:      logger.Named("http_handler"),
		jwtSecret:   jwtSecret,
	}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestMetrics)

	authenticated := auth.Middleware(h.jwtSecret)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)

		// Public evaluation flow: the page posts the stars first and may
		// amend the comment right after, before any authentication exists.
		r.Post("/avaliacoes", h.SubmitReview)
		r.Put("/avaliacoes/{id}", h.AmendReview)

		r.Get("/company/public/{slug}", h.PublicSettings)

		r.Get("/sugestoes", h.ListSuggestions)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/avaliacoes/dashboard", h.Dashboard)
			r.Get("/avaliacoes", h.ListReviews)

			r.Post("/atendentes", h.CreateAttendant)
			r.Get("/atendentes", h.ListAttendants)
			r.Delete("/atendentes/{id}", h.DeleteAttendant)

			r.Get("/company/settings", h.GetSettings)
			r.Put("/company/settings", h.UpdateSettings)
			r.Get("/company/users", h.ListUsers)
			r.Post("/company/users", h.InviteUser)
			r.Put("/company/users/{id}/password", h.UpdateUserPassword)

			r.Post("/sugestoes", h.CreateSuggestion)
			r.Post("/sugestoes/{id}/vote", h.VoteSuggestion)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSaasAdmin)

				r.Get("/admin/dashboard", h.AdminMetrics)
				r.Get("/admin/companies", h.AdminListCompanies)
				r.Post("/admin/companies", h.AdminCreateCompany)
				r.Put("/admin/companies/{id}", h.AdminUpdateCompany)
			})
		})
	})

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
