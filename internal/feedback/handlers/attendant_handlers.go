package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaliafacil/feedback/internal/feedback/controller"
)

// CreateAttendant adds an attendant, enforcing the plan ceiling.
func (h *Handler) CreateAttendant(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var in controller.AttendantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	attendant, err := h.attendants.Create(r.Context(), companyID, &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, attendant)
}

// ListAttendants returns the tenant roster.
func (h *Handler) ListAttendants(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	attendants, err := h.attendants.List(r.Context(), companyID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, attendants)
}

// DeleteAttendant removes an attendant and its reviews.
func (h *Handler) DeleteAttendant(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Identificador inválido."})
		return
	}

	if err := h.attendants.Delete(r.Context(), id, companyID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Deletado com sucesso"})
}
