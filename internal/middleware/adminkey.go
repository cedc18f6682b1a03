package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/util"
)

// AdminKeyMiddleware gates the admin API behind a static key. An empty
// configured key disables the whole admin surface.
type AdminKeyMiddleware struct {
	apiKey string
}

func NewAdminKeyMiddleware(apiKey string) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{apiKey: apiKey}
}

func (m *AdminKeyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "Admin API is disabled",
			})
			return
		}

		key := extractBearer(r)
		if key == "" {
			key = r.Header.Get("X-Admin-Key")
		}

		if !util.ConstantTimeEqual(key, m.apiKey) {
			log.Warn().Str("remoteAddr", r.RemoteAddr).Msg("admin key rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid admin key",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
