// Package rbac provides role-based access control middleware.
//
// Roles are not embedded in the JWT; RequireRole resolves the caller's
// current role through an injected lookup so promotions and demotions take
// effect immediately.
package rbac

import (
	"context"
	"net/http"

	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/response"
)

const (
	RoleUser  = 0
	RoleAdmin = 1
)

// RoleLookup resolves a user id to its current role. found is false when no
// such user exists.
type RoleLookup func(ctx context.Context, userID string) (role int, found bool, err error)

// RequireRole returns middleware allowing only users whose current role is
// one of roles. Compose after middleware.Authenticate. An absent user is a
// 404; a present user with the wrong role is a 403.
func RequireRole(lookup RoleLookup, roles ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := middleware.UserIDFromCtx(r.Context())
			if userID == "" {
				response.Error(w, apperr.Unauthenticated("Unauthorized"))
				return
			}

			role, found, err := lookup(r.Context(), userID)
			if err != nil {
				response.Error(w, apperr.Unexpected(err))
				return
			}
			if !found {
				response.Error(w, apperr.NotFound("User not found"))
				return
			}
			if !allowed[role] {
				response.Error(w, apperr.Forbidden("Admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for RequireRole(lookup, RoleAdmin).
func RequireAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return RequireRole(lookup, RoleAdmin)
}
