package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avaliafacil/feedback/internal/feedback/controller"
	e "github.com/avaliafacil/feedback/internal/feedback/errors"
)

// Login authenticates an operator and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	token, user, err := h.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, e.ErrNotFound):
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Usuário não encontrado."})
		case errors.Is(err, e.ErrUnauthorized):
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Senha incorreta."})
		default:
			h.writeError(w, err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"name": user.Name,
			"role": user.Role,
		},
	})
}

// Register creates a standalone operator account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in controller.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Dados inválidos."})
		return
	}

	if _, err := h.accounts.Register(r.Context(), &in); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Usuário criado com sucesso!"})
}
