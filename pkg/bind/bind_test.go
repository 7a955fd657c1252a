package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/bind"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func request(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestJSONValid(t *testing.T) {
	var in loginBody
	err := bind.JSON(request(`{"email":"jane@example.com","password":"secret123"}`), &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Email != "jane@example.com" {
		t.Errorf("email = %q", in.Email)
	}
}

func TestJSONMalformed(t *testing.T) {
	var in loginBody
	err := bind.JSON(request(`{"email": `), &in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJSONFieldErrors(t *testing.T) {
	var in loginBody
	err := bind.JSON(request(`{"email":"not-an-email"}`), &in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := apperr.FieldsOf(err)
	if _, ok := fields["email"]; !ok {
		t.Error("expected an email field error")
	}
	if _, ok := fields["password"]; !ok {
		t.Error("expected a password field error")
	}
}

func TestJSONBodyTooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "64")

	big := `{"email":"jane@example.com","password":"` + strings.Repeat("x", 256) + `"}`
	var in loginBody
	err := bind.JSON(request(big), &in)
	if apperr.KindOf(err) != apperr.KindTooLarge {
		t.Fatalf("expected too-large error, got %v", err)
	}
}
