package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/plotforge/plotforge/internal/auth"
)

type contextKeyAuth string

// ClientKey is the context key for the authenticated client name.
const ClientKey contextKeyAuth = "auth_client"

// Authenticate validates the Authorization bearer token and attaches
// the client name to the request context. A nil token service disables
// authentication and every request passes through.
func Authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, "Authentication required. Provide a Bearer token.")
				return
			}
			subject, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeAuthError(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClientKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClient extracts the authenticated client name from the context.
// Empty when authentication is disabled.
func GetClient(ctx context.Context) string {
	if c, ok := ctx.Value(ClientKey).(string); ok {
		return c
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"ok":false,"error":"` + message + `"}`))
}
