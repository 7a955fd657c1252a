package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/auth"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/response"
)

// userIDKey stores the authenticated user's id (ObjectID hex) in context.
type userIDKey struct{}

// UserIDFromCtx returns the authenticated user's id set by Authenticate.
func UserIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithUserID stores a user id in ctx. Exported for tests that exercise
// authenticated handlers without running the middleware.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// Authenticate verifies the JWT in the Authorization header and stores the
// subject user id in the request context. The raw token form is the wire
// contract; a "Bearer " prefix is also accepted. Missing, malformed, and
// expired tokens are all 401 with the same body, but each is logged with a
// distinct reason.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.WithCtx(r.Context())

		token := auth.StripBearer(r.Header.Get("Authorization"))
		if token == "" {
			log.Warn("auth rejected", "reason", "missing token", "path", r.URL.Path)
			response.Error(w, apperr.Unauthenticated("Unauthorized"))
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired token"
			}
			log.Warn("auth rejected", "reason", reason, "path", r.URL.Path)
			response.Error(w, apperr.Unauthenticated("Unauthorized"))
			return
		}

		ctx := WithUserID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
