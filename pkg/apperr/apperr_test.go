package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rishavanand/bazario/pkg/apperr"
)

func TestStatusPerKind(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad input", nil), http.StatusUnprocessableEntity},
		{apperr.BadRequest("bad id"), http.StatusBadRequest},
		{apperr.Unauthenticated("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("admins only"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("duplicate"), http.StatusConflict},
		{apperr.TooLarge("too big"), http.StatusRequestEntityTooLarge},
		{apperr.Upstream("gateway down", nil), http.StatusBadGateway},
		{apperr.PartialFailure("captured but unsaved", nil), http.StatusBadGateway},
		{apperr.Unexpected(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := apperr.Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := apperr.NotFound("Order not found")
	outer := fmt.Errorf("load order: %w", inner)

	if apperr.KindOf(outer) != apperr.KindNotFound {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
	if apperr.Status(outer) != http.StatusNotFound {
		t.Error("status lost through fmt.Errorf wrapping")
	}
}

func TestIsMatchesOnKind(t *testing.T) {
	err := apperr.Wrap(apperr.KindConflict, "duplicate slug", errors.New("E11000"))

	if !errors.Is(err, &apperr.Error{Kind: apperr.KindConflict}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound}) {
		t.Error("errors.Is must not match a different kind")
	}
}

func TestFieldsOf(t *testing.T) {
	fields := map[string]string{"email": "email is required"}
	err := apperr.Validation("Validation failed", fields)

	got := apperr.FieldsOf(fmt.Errorf("register: %w", err))
	if got["email"] != "email is required" {
		t.Errorf("FieldsOf = %v", got)
	}
	if apperr.FieldsOf(errors.New("plain")) != nil {
		t.Error("plain errors carry no fields")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Upstream("payment gateway", cause)

	if err.Error() != "payment gateway: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause must be reachable via Unwrap")
	}
}
