package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
)

// ListSuggestions is public and ordered by likes.
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.suggestions.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, suggestions)
}

// CreateSuggestion records a feature request.
func (h *Handler) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	suggestion, err := h.suggestions.Create(r.Context(), body.Text)
	if err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Texto obrigatório"})
			return
		}
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, suggestion)
}

// VoteSuggestion bumps the like or dislike counter.
func (h *Handler) VoteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Identificador inválido."})
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	if err := h.suggestions.Vote(r.Context(), uint(id), body.Type); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
