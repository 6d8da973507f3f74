package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps a service error onto the HTTP status taxonomy with a
// user-facing Portuguese message. Unexpected errors are logged server-side
// and answered with a generic message only.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Error: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, "Dados inválidos."
	case errors.Is(err, e.ErrDuplicateEmail):
		return http.StatusBadRequest, "E-mail já cadastrado."
	case errors.Is(err, e.ErrDuplicateName):
		return http.StatusBadRequest, "Nome já cadastrado."
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, "Não autorizado."
	case errors.Is(err, e.ErrQuotaExceeded):
		return http.StatusForbidden, "Limite de atendentes do plano atingido."
	case errors.Is(err, e.ErrNoTenant):
		return http.StatusForbidden, "Contexto de empresa não encontrado."
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, "Acesso negado."
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, "Registro não encontrado."
	default:
		return http.StatusInternalServerError, "Erro interno no servidor."
	}
}

// requestMetrics counts served requests by method and status class.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		statusClass := strconv.Itoa(ww.Status()/100) + "xx"
		metrics.HTTPRequests.WithLabelValues(r.Method, statusClass).Inc()
	})
}
