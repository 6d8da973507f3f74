package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaliafacil/feedback/internal/feedback/auth"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
)

// resolveTenant runs the tenant resolver for an authenticated request,
// honoring the optional ?slug= impersonation parameter.
func (h *Handler) resolveTenant(r *http.Request) (uuid.UUID, error) {
	claims := auth.FromContext(r.Context())
	return h.resolver.Resolve(r.Context(), claims, r.URL.Query().Get("slug"))
}

// SubmitReview accepts a public review submission and answers immediately;
// webhook notification happens in the background.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewSubmission
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}
	if in.CompanySlug == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Contexto de empresa (slug) é obrigatório."})
		return
	}

	review, err := h.reviews.Submit(r.Context(), &in)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Empresa não encontrada."})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Avaliação recebida com sucesso!",
		"id":      review.ID,
	})
}

// AmendReview overwrites the comment of an existing review.
func (h *Handler) AmendReview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Identificador inválido."})
		return
	}

	var body struct {
		Observation string `json:"observation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	review, err := h.reviews.AmendComment(r.Context(), id, body.Observation)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Avaliação não encontrada."})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Observação atualizada!",
		"review":  review,
	})
}

// Dashboard serves the tenant metrics page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Empresa não encontrada."})
			return
		}
		h.writeError(w, err)
		return
	}

	data, err := h.dashboard.Dashboard(r.Context(), companyID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, data)
}

// ListReviews serves one filtered page of the tenant's reviews.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	filter := parseReviewFilter(r)
	reviews, err := h.reviews.ListReviews(r.Context(), companyID, filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, reviews)
}

func parseReviewFilter(r *http.Request) models.ReviewFilter {
	q := r.URL.Query()
	filter := models.ReviewFilter{
		Search: q.Get("search"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.MinStars, _ = strconv.Atoi(q.Get("minStars"))

	if v := q.Get("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &end
		}
	}
	return filter
}
