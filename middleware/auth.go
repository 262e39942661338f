package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/services"
)

type contextKey string

const adminContextKey contextKey = "admin"

// TokenParser validates an admin token. services.AuthService satisfies it.
type TokenParser interface {
	ParseToken(token string) (*services.AdminClaims, error)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer"
// admin token and stores the claims in the request context.
func RequireAdmin(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := parser.ParseToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), adminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AdminFromContext returns the claims stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*services.AdminClaims, bool) {
	claims, ok := ctx.Value(adminContextKey).(*services.AdminClaims)
	return claims, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
