package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rishavanand/bazario/pkg/response"
)

// limiter holds per-client fixed-window counters for one RateLimit instance.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	count int
	until time.Time
}

func (l *limiter) allow(client string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[client]
	if !ok || now.After(w.until) {
		l.windows[client] = &clientWindow{count: 1, until: now.Add(l.window)}
		return true
	}
	w.count++
	return w.count <= l.max
}

// sweep drops counters whose window has passed so the map stays bounded.
func (l *limiter) sweep() {
	tick := time.NewTicker(l.window)
	defer tick.Stop()
	for now := range tick.C {
		l.mu.Lock()
		for client, w := range l.windows {
			if now.After(w.until) {
				delete(l.windows, client)
			}
		}
		l.mu.Unlock()
	}
}

// clientKey identifies the caller: first X-Forwarded-For hop when present,
// otherwise the socket address.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

// RateLimit allows each client max requests per window and answers 429
// beyond that.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := &limiter{max: max, window: window, windows: map[string]*clientWindow{}}
	go l.sweep()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r), time.Now()) {
				response.Fail(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
