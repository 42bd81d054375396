package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequirePermission.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// RequirePermission returns a middleware factory that rejects requests whose bearer token
// does not grant the named permission.
func RequirePermission(tokens *jwt.Manager, logger zerolog.Logger) func(permission string) func(http.Handler) http.Handler {
	return func(permission string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					httperrors.RespondUnauthorized(w, httperrors.ReasonAuthenticationRequired)
					return
				}

				// Parse "Bearer <token>"
				parts := strings.Fields(authHeader)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					httperrors.RespondUnauthorized(w, httperrors.ReasonInvalidToken)
					return
				}

				claims, err := tokens.Validate(parts[1])
				if err != nil {
					logger.Warn().Err(err).Msg("token validation failed")
					httperrors.RespondUnauthorized(w, httperrors.ReasonInvalidToken)
					return
				}

				if !claims.Has(permission) {
					logger.Warn().Str("subject", claims.Subject).Str("permission", permission).Msg("permission denied")
					httperrors.RespondForbidden(w, httperrors.ReasonMissingPermission)
					return
				}

				ctx := context.WithValue(r.Context(), claimsKey{}, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}
}
