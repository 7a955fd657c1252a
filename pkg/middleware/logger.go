package middleware

import (
	"net/http"
	"time"

	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/reqid"
)

// statusRecorder remembers the status and body size written downstream.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(p []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(p)
	sr.bytes += n
	return n, err
}

// Logger emits one structured line per request and plants a request-scoped
// logger (pre-tagged with request_id) in the context for logger.WithCtx.
// reqid.Middleware must run first or the id will be empty.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.Inject(r.Context(), reqLog))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		reqLog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
