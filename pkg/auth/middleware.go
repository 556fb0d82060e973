package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sigil-dev/sigil/pkg/auth/token"
)

// Middleware creates the per-request authentication filter. It extracts a
// bearer token, verifies it, resolves the subject through the user store,
// and binds the principal to the request context.
//
// The filter never rejects a request on its own: a missing header, a
// malformed scheme, an invalid or expired token, or a subject that no longer
// exists in the store (a deleted user holding a still-valid token) all leave
// the request anonymous and continue down the chain. It runs before any
// role check and is free of side effects beyond the context binding.
func Middleware(codec *token.Codec, users UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := codec.VerifyAndParse(tokenStr)
			if err != nil {
				logger.Debug("bearer token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			subject := claims.Subject()
			if subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := users.FindByEmail(r.Context(), subject)
			if err != nil {
				logger.Debug("token subject not resolvable",
					"subject", subject,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), &Principal{
				Subject: identity.Email,
				Role:    identity.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
