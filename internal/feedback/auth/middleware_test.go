package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaliafacil/feedback/internal/feedback/models"
)

func claimsEcho(t *testing.T, captured **Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestMiddlewareInjectsClaims(t *testing.T) {
	companyID := uuid.New()
	user := &models.User{ID: uuid.New(), Role: models.RoleGestor, CompanyID: &companyID}
	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	var got *Claims
	handler := Middleware(testSecret)(claimsEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID.String(), got.UserID)
	assert.Equal(t, companyID.String(), got.CompanyID)
}

func TestMiddlewareMissingToken(t *testing.T) {
	var got *Claims
	handler := Middleware(testSecret)(claimsEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Acesso negado. Token não fornecido.", decodeError(t, rec))
	assert.Nil(t, got)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	var got *Claims
	handler := Middleware(testSecret)(claimsEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token inválido.", decodeError(t, rec))
	assert.Nil(t, got)
}

func TestRequireSaasAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireSaasAdmin(next)

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := WithClaims(req.Context(), &Claims{UserID: uuid.NewString(), Role: models.RoleSaasAdmin})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("gestor is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := WithClaims(req.Context(), &Claims{UserID: uuid.NewString(), Role: models.RoleGestor})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Acesso negado. Apenas Super Admin.", decodeError(t, rec))
	})

	t.Run("missing claims are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
