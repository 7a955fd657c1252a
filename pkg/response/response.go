// Package response writes the JSON envelope used by every endpoint:
//
//	{"success": true, "message": "...", ...payload}
//
// Error responses derive their status code from the apperr kind, so handlers
// return errors and never pick codes themselves.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/apperr"
)

// M is shorthand for an envelope payload.
type M map[string]interface{}

func write(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends an arbitrary success envelope at the given status. The success
// flag is forced on; extra keys are merged into the envelope top level.
func JSON(w http.ResponseWriter, status int, payload M) {
	body := M{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Success sends a 200 envelope.
func Success(w http.ResponseWriter, payload M) {
	JSON(w, http.StatusOK, payload)
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, payload M) {
	JSON(w, http.StatusCreated, payload)
}

// Message sends a 200 envelope with only a message.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, M{"message": msg})
}

// Error renders err through the taxonomy: the status comes from the kind,
// the message is the client-safe one, and validation errors carry their
// field map. Unexpected errors get a generic message in production.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)

	body := M{"success": false}

	switch apperr.KindOf(err) {
	case apperr.KindUnexpected:
		if config.IsProduction() {
			body["message"] = "Something went wrong"
		} else {
			body["message"] = err.Error()
		}
	case apperr.KindValidation:
		body["message"] = clientMessage(err)
		if fields := apperr.FieldsOf(err); len(fields) > 0 {
			body["errors"] = fields
		}
	case apperr.KindPartialFailure:
		// Distinct body: the charge went through, only persistence failed.
		body["message"] = clientMessage(err)
		body["payment_captured"] = true
	default:
		body["message"] = clientMessage(err)
	}

	write(w, status, body)
}

// Fail sends an error envelope with an explicit status, for the rare spots
// that answer outside the taxonomy.
func Fail(w http.ResponseWriter, status int, msg string) {
	write(w, status, M{"success": false, "message": msg})
}

func clientMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
