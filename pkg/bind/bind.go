// Package bind turns a request body into a validated input struct. It is
// the only place request JSON is decoded, so the size cap and the error
// taxonomy mapping live here once.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/validate"
)

const defaultBodyCap = 4 << 20 // 4 MB

func bodyCap() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyCap
	}
	return n
}

// JSON decodes r.Body into dest, capped at MAX_BODY_BYTES, then runs the
// struct-tag rules. Failures come back as taxonomy errors: an oversized
// body is TooLarge, malformed JSON and failing rules are Validation (the
// latter carrying the per-field map).
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyCap())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.TooLarge("Request body too large")
		}
		return apperr.Validation("Invalid JSON body", nil)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.Validation("Validation failed", errs)
	}
	return nil
}
