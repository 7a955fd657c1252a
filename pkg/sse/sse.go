// Package sse writes Server-Sent Events, the transport behind the
// per-buyer order status feed. A Stream wraps one client connection;
// callers push named events until IsClosed reports the client left.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream is one open event-stream response.
type Stream struct {
	w    http.ResponseWriter
	fl   http.Flusher
	done <-chan struct{} // request context, closed on client disconnect
}

// New prepares w for event streaming. It returns nil (after answering 500)
// when the writer cannot flush, which only happens behind a non-streaming
// proxy.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // nginx would buffer otherwise

	return &Stream{w: w, fl: fl, done: r.Context().Done()}
}

// Send emits one event frame with a JSON body.
func (s *Stream) Send(event string, data any) error {
	if s.IsClosed() {
		return nil
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: encode %q: %w", event, err)
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, body)
	s.fl.Flush()
	return nil
}

// Comment emits a comment frame. Browsers ignore it; proxies see traffic,
// so it doubles as a heartbeat.
func (s *Stream) Comment(text string) {
	if s.IsClosed() {
		return
	}
	fmt.Fprintf(s.w, ": %s\n\n", text)
	s.fl.Flush()
}

// IsClosed reports whether the client has gone away.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
