package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/rbac"
)

func serve(t *testing.T, lookup rbac.RoleLookup, userID string) *httptest.ResponseRecorder {
	t.Helper()

	handler := rbac.RequireAdmin(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/admin-auth", nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func staticLookup(role int, found bool, err error) rbac.RoleLookup {
	return func(ctx context.Context, userID string) (int, bool, error) {
		return role, found, err
	}
}

func TestRequireAdminMatrix(t *testing.T) {
	cases := []struct {
		name   string
		lookup rbac.RoleLookup
		userID string
		want   int
	}{
		{"no authenticated user", staticLookup(rbac.RoleAdmin, true, nil), "", http.StatusUnauthorized},
		{"user no longer exists", staticLookup(0, false, nil), "u1", http.StatusNotFound},
		{"regular user", staticLookup(rbac.RoleUser, true, nil), "u1", http.StatusForbidden},
		{"admin", staticLookup(rbac.RoleAdmin, true, nil), "u1", http.StatusOK},
		{"lookup failure", staticLookup(0, false, errors.New("mongo down")), "u1", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(t, tc.lookup, tc.userID); rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestDemotionTakesEffectImmediately(t *testing.T) {
	// The role comes from the lookup on every request, not from the token,
	// so flipping the stored role changes the outcome with no re-login.
	role := rbac.RoleAdmin
	lookup := func(ctx context.Context, userID string) (int, bool, error) {
		return role, true, nil
	}

	if rec := serve(t, lookup, "u1"); rec.Code != http.StatusOK {
		t.Fatalf("admin request: status = %d", rec.Code)
	}

	role = rbac.RoleUser
	if rec := serve(t, lookup, "u1"); rec.Code != http.StatusForbidden {
		t.Fatalf("after demotion: status = %d", rec.Code)
	}
}

func TestRequireRoleMultiple(t *testing.T) {
	lookup := staticLookup(rbac.RoleUser, true, nil)
	handler := rbac.RequireRole(lookup, rbac.RoleUser, rbac.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
