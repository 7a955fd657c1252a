package validate_test

import (
	"testing"

	"github.com/rishavanand/bazario/pkg/validate"
)

type registerBody struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerBody{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "secret123",
		Phone:    "5551234567",
		Address:  "1 Main St",
		Answer:   "blue",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerBody{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "phone", "address", "answer"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestMinRule(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	if errs := validate.Struct(in{Password: "short"}); !validate.HasErrors(errs) {
		t.Error("expected short password to fail")
	}
	if errs := validate.Struct(in{Password: "longenough"}); validate.HasErrors(errs) {
		t.Errorf("expected long password to pass, got: %v", errs)
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"nullable,min=6"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("nullable empty field must pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Password: "short"}); !validate.HasErrors(errs) {
		t.Error("nullable non-empty field must still honor min")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Disk string `json:"disk" validate:"required,in=mongo,local,s3"`
	}
	if errs := validate.Struct(in{Disk: "ftp"}); !validate.HasErrors(errs) {
		t.Error("expected out-of-set value to fail")
	}
	if errs := validate.Struct(in{Disk: "s3"}); validate.HasErrors(errs) {
		t.Errorf("expected in-set value to pass, got: %v", errs)
	}
}
