package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/response"
)

// Recovery turns a downstream panic into a logged 500 instead of a dropped
// connection. It sits outermost in the chain so nothing escapes it.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprint(v),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.Error(w, apperr.Unexpected(fmt.Errorf("panic: %v", v)))
		}()
		next.ServeHTTP(w, r)
	})
}
