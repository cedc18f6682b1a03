package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/service"
)

type contextKey string

const ScannerContextKey contextKey = "scanner"

// GetScannerClaims returns the authenticated scanner session, or nil.
func GetScannerClaims(ctx context.Context) *service.ScannerClaims {
	if claims, ok := ctx.Value(ScannerContextKey).(*service.ScannerClaims); ok {
		return claims
	}
	return nil
}

// AuthMiddleware authenticates scanner session tokens. It only establishes
// identity; event-level authorization happens inside the redemption path on
// every call.
type AuthMiddleware struct {
	tokens *service.TokenService
}

func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing session token",
			})
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			log.Warn().Msg("auth middleware: invalid session token")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid or expired session token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), ScannerContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
