package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avaliafacil/feedback/internal/feedback/models"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Middleware validates the Bearer token and injects the decoded Claims into
// the request context. Unauthenticated requests are rejected with the same
// Portuguese payloads the rest of the API uses.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractTokenFromHeader(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Acesso negado. Token não fornecido.")
				return
			}

			claims, err := ValidateToken(tokenString, jwtSecret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token inválido.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSaasAdmin guards platform-admin routes. Must run after Middleware.
func RequireSaasAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := FromContext(r.Context())
		if claims == nil || claims.Role != models.RoleSaasAdmin {
			writeError(w, http.StatusForbidden, "Acesso negado. Apenas Super Admin.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the decoded claims of the request, or nil when the
// request was not authenticated.
func FromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// WithClaims injects claims into ctx. Exported for handler tests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func extractTokenFromHeader(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
