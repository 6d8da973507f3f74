package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaliafacil/feedback/internal/feedback/controller"
	"github.com/avaliafacil/feedback/internal/feedback/models"
)

// AdminMetrics serves the cross-tenant platform dashboard.
func (h *Handler) AdminMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.admin.Metrics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// AdminListCompanies lists every tenant with counters.
func (h *Handler) AdminListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.admin.ListCompanies(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, companies)
}

// AdminCreateCompany onboards a tenant.
func (h *Handler) AdminCreateCompany(w http.ResponseWriter, r *http.Request) {
	var in controller.CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	company, err := h.admin.CreateCompany(r.Context(), &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, company)
}

// AdminUpdateCompany changes a tenant's name, plan or active flag.
func (h *Handler) AdminUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Identificador inválido."})
		return
	}

	var body struct {
		Name   *string      `json:"name"`
		Plan   *models.Plan `json:"plan"`
		Active *bool        `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	company, err := h.admin.UpdateCompany(r.Context(), id, body.Name, body.Plan, body.Active)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, company)
}
