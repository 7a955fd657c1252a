// Package ctx gives handlers a single request object instead of the raw
// (http.ResponseWriter, *http.Request) pair. It bundles path params, JSON
// binding, a per-request store, and the response envelope helpers:
//
//	func Show(c *ctx.Context) {
//	    slug := c.Param("slug")
//	    c.Success(response.M{"slug": slug})
//	}
//
//	router.Get("/product/{slug}", "products.show", ctx.Wrap(Show))
package ctx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rishavanand/bazario/pkg/bind"
	"github.com/rishavanand/bazario/pkg/response"
	"github.com/rishavanand/bazario/pkg/validate"
)

// Context carries one request through a handler. W and R stay exported so
// code that needs the raw pair (SSE, websockets) can reach them.
type Context struct {
	W http.ResponseWriter
	R *http.Request

	mu    sync.RWMutex
	store map[string]any
}

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc for registration on the
// router.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: w, R: r})
	}
}

// Context exposes the request's context.Context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Param returns the named path parameter, e.g. c.Param("slug") for a
// route declared as /product/{slug}.
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

// DefaultQuery is Query with a fallback for the empty case.
func (c *Context) DefaultQuery(key, fallback string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return fallback
}

// Header reads a request header.
func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

// Method returns the request method.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request path.
func (c *Context) Path() string { return c.R.URL.Path }

// Body drains the raw request body. It can be read once; prefer BindJSON
// for structured input.
func (c *Context) Body() ([]byte, error) { return io.ReadAll(c.R.Body) }

// ClientIP returns the caller's address, trusting X-Forwarded-For and
// X-Real-Ip before the socket address.
func (c *Context) ClientIP() string {
	if fwd := c.Header("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := c.Header("X-Real-Ip"); real != "" {
		return real
	}
	addr := c.R.RemoteAddr
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[:i]
	}
	return addr
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stashes a value for later middleware or the handler.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
	c.mu.Unlock()
}

// Get reads a stashed value.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.store[key]
	return v, ok
}

// MustGet is Get that panics on a missing key.
func (c *Context) MustGet(key string) any {
	v, ok := c.Get(key)
	if !ok {
		panic(fmt.Sprintf("ctx: key %q not found in store", key))
	}
	return v
}

// GetString reads a stashed string, "" on absence or wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On any failure the
// error response is already written (400 malformed, 413 oversized, 422
// with field errors) and false comes back:
//
//	var input RegisterInput
//	if !c.BindJSON(&input) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		response.Error(c.W, err)
		return false
	}
	return true
}

// ShouldBindJSON is BindJSON without the automatic error response; the
// caller decides what to do with the error.
func (c *Context) ShouldBindJSON(dest any) error {
	return bind.JSON(c.R, dest)
}

// Validate runs the struct-tag rules on an already-populated value.
func (c *Context) Validate(v any) map[string]string {
	return validate.Struct(v)
}

// ─── Responses ────────────────────────────────────────────────────────────────
//
// Everything JSON funnels through pkg/response so handlers on *Context and
// handlers on a bare ResponseWriter emit the same envelope.

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) { c.W.Header().Set(key, value) }

// Status writes a bare status code.
func (c *Context) Status(code int) { c.W.WriteHeader(code) }

// JSON writes an envelope with an explicit status.
func (c *Context) JSON(code int, payload response.M) { response.JSON(c.W, code, payload) }

// Success writes a 200 success envelope.
func (c *Context) Success(payload response.M) { response.Success(c.W, payload) }

// Created writes a 201 success envelope.
func (c *Context) Created(payload response.M) { response.Created(c.W, payload) }

// Message writes a 200 envelope carrying only a message.
func (c *Context) Message(msg string) { response.Message(c.W, msg) }

// Error maps err through the error taxonomy to a status and envelope.
func (c *Context) Error(err error) { response.Error(c.W, err) }

// Fail writes an error envelope with an explicit status and message.
func (c *Context) Fail(code int, msg string) { response.Fail(c.W, code, msg) }

// String writes plain text.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	fmt.Fprintf(c.W, format, args...)
}

// Redirect sends an HTTP redirect.
func (c *Context) Redirect(code int, url string) { http.Redirect(c.W, c.R, url, code) }

// Blob writes raw bytes under the given content type; product photos are
// served this way.
func (c *Context) Blob(code int, contentType string, data []byte) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	c.W.WriteHeader(code)
	c.W.Write(data) //nolint:errcheck
}
