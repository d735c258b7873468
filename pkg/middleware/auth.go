package middleware

import (
	"net/http"

	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate attaches the caller's claims to the request context when a
// valid bearer token is present. A present but invalid token is rejected.
// Anonymous requests pass through; routes enforce access with RequireRole.
func Authenticate(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(header)
			if err != nil {
				log.Warn("Bearer token rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = apperrors.WriteError(w, apperrors.Unauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole guards a route. With no roles any authenticated caller passes.
func RequireRole(h httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims := auth.FromContext(r.Context())
		if claims == nil {
			_ = apperrors.WriteError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		if len(roles) > 0 && !claims.HasRole(roles...) {
			_ = apperrors.WriteError(w, apperrors.Forbidden("insufficient role"))
			return
		}
		h(w, r, ps)
	}
}
