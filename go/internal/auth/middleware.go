package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// TokenQueryParam carries the token for websocket upgrades, which browsers
// cannot send an Authorization header with.
const TokenQueryParam = "token"

// Middleware is the plain HTTP counterpart of NewInterceptor. The token is
// read from the Authorization header, then from the token query parameter.
func Middleware(svc Service, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if token == "" {
				token = r.URL.Query().Get(TokenQueryParam)
			}

			if token == "" {
				if required {
					http.Error(w, ErrUnauthenticated.Error(), http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Anonymous)))
				return
			}

			principal, err := svc.ValidateToken(token)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected token")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
