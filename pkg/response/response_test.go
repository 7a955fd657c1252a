package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, response.M{"user": "jane"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Error("success flag must be true")
	}
	if body["user"] != "jane" {
		t.Error("payload keys must be merged into the envelope")
	}
}

func TestCreatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, response.M{"category": "books"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestErrorStatusFromKind(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, apperr.NotFound("Product not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false {
		t.Error("success flag must be false")
	}
	if body["message"] != "Product not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestErrorValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, apperr.Validation("Validation failed", map[string]string{
		"price": "price must be a non-negative number",
	}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("errors key missing or wrong shape: %v", body)
	}
	if fields["price"] != "price must be a non-negative number" {
		t.Errorf("field message = %v", fields["price"])
	}
}

func TestErrorPartialFailureFlagsCapture(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, apperr.PartialFailure(
		"Payment was captured but the order could not be saved. Support has been notified.",
		errors.New("insert failed"),
	))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["payment_captured"] != true {
		t.Error("partial failures must carry payment_captured:true")
	}
	// The internal cause must not leak into the client message.
	if msg, _ := body["message"].(string); msg == "" || msg == "insert failed" {
		t.Errorf("message = %q", msg)
	}
}

func TestErrorUpstreamHasNoCaptureFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, apperr.Upstream("Processor Declined", nil))

	body := decode(t, rec)
	if _, ok := body["payment_captured"]; ok {
		t.Error("a plain upstream failure must not claim a captured payment")
	}
}

func TestErrorUnexpectedHiddenInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	rec := httptest.NewRecorder()
	response.Error(rec, apperr.Unexpected(errors.New("pointer dereference at 0x0")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Something went wrong" {
		t.Errorf("internal details leaked: %v", body["message"])
	}
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, http.StatusTeapot, "short and stout")

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["message"] != "short and stout" {
		t.Errorf("body = %v", body)
	}
}
