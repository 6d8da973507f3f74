package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaliafacil/feedback/internal/feedback/controller"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
)

// settingsResponse is the tenant-visible slice of a company.
type settingsResponse struct {
	Logo          string                      `json:"logo"`
	PrimaryColor  string                      `json:"primaryColor"`
	Settings      models.JSONMap              `json:"settings"`
	Notifications models.NotificationSettings `json:"notifications"`
	Slug          string                      `json:"slug"`
	Name          string                      `json:"name"`
	Area          string                      `json:"area"`
	Whatsapp      string                      `json:"whatsapp"`
	Plan          models.Plan                 `json:"plan"`
}

// userResponse hides the password hash from listings.
type userResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Active bool      `json:"active"`
}

// GetSettings serves the caller's company configuration.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	company, err := h.companies.GetSettings(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Empresa não encontrada."})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settingsResponse{
		Logo:          company.Logo,
		PrimaryColor:  company.PrimaryColor,
		Settings:      company.Settings,
		Notifications: company.Notifications,
		Slug:          company.Slug,
		Name:          company.Name,
		Area:          company.Area,
		Whatsapp:      company.Whatsapp,
		Plan:          company.Plan,
	})
}

// UpdateSettings applies a partial update to the caller's company.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var in controller.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	company, err := h.companies.UpdateSettings(r.Context(), companyID, &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Configurações atualizadas!",
		"company": company,
	})
}

// PublicSettings serves the branding the public evaluation page needs.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	company, err := h.companies.PublicSettings(r.Context(), slug)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Empresa não encontrada."})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"logo":         company.Logo,
		"primaryColor": company.PrimaryColor,
		"settings":     company.Settings,
		"name":         company.Name,
	})
}

// ListUsers lists the operators of the caller's company.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	users, err := h.companies.ListUsers(r.Context(), companyID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   u.Role,
			Active: u.Active,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// InviteUser creates an operator inside the caller's company.
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var in controller.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	user, err := h.companies.InviteUser(r.Context(), companyID, &in)
	if err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Preencha todos os campos obrigatórios."})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Usuário criado com sucesso!",
		"user": userResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			Active: user.Active,
		},
	})
}

// UpdateUserPassword rehashes the password of a user in the caller's
// company.
func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveTenant(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Identificador inválido."})
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	if err := h.companies.UpdateUserPassword(r.Context(), companyID, userID, body.Password); err != nil {
		switch {
		case errors.Is(err, e.ErrInvalidInput):
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Senha deve ter no mínimo 6 caracteres."})
		case errors.Is(err, e.ErrNotFound):
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Usuário não encontrado."})
		default:
			h.writeError(w, err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Senha atualizada com sucesso."})
}
