// Package router layers named routes and nested groups over chi. Names
// exist so URL generation and the route:list command can see the route
// table; chi itself only matches.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Middleware is the standard wrapping signature.
type Middleware func(http.Handler) http.Handler

// Route is one row of the route table.
type Route struct {
	Method string
	Path   string
	Name   string
}

// Router owns the chi mux and the name-to-route table.
type Router struct {
	mux    chi.Router
	mu     sync.RWMutex
	routes map[string]Route
}

func New() *Router {
	return &Router{mux: chi.NewRouter(), routes: map[string]Route{}}
}

// Handler returns the mux for http.Server.
func (r *Router) Handler() http.Handler { return r.mux }

// Use adds router-wide middleware. Must run before any route is mounted,
// per chi's rules.
func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

// Handle mounts a plain http.Handler for all methods; /metrics and the
// websocket upgrade use this.
func (r *Router) Handle(path string, h http.Handler) {
	r.mux.Handle(cleanPath(path), h)
}

// Param reads a chi path parameter off the request.
func Param(req *http.Request, key string) string {
	return chi.URLParam(req, key)
}

// register is the single mounting point for Router and Group methods.
func (r *Router) register(method, path, name string, h http.HandlerFunc, mws []Middleware) {
	full := cleanPath(path)

	var wrapped http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	r.mux.Method(method, full, wrapped)

	if name == "" {
		return
	}
	r.mu.Lock()
	r.routes[name] = Route{Method: method, Path: full, Name: name}
	r.mu.Unlock()
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.register(http.MethodGet, path, name, h, mws)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.register(http.MethodPost, path, name, h, mws)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.register(http.MethodPut, path, name, h, mws)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.register(http.MethodDelete, path, name, h, mws)
}

// Path looks up a route's pattern by name.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[name]
	return rt.Path, ok
}

// URL renders a named route with its parameters filled in. Every {param}
// in the pattern must be supplied.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}
	return path, nil
}

// Routes lists every named route, sorted by path then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	all := make([]Route, 0, len(r.routes))
	for _, rt := range r.routes {
		all = append(all, rt)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].Method < all[j].Method
	})
	return all
}

// ─── Groups ───────────────────────────────────────────────────────────────────

// Group is a path prefix plus a middleware stack; routes mounted through
// it inherit both. Groups nest.
type Group struct {
	router *Router
	prefix string
	mws    []Middleware
}

func (r *Router) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		router: r,
		prefix: cleanPath(prefix),
		mws:    append([]Middleware(nil), mws...),
	}
}

func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		router: g.router,
		prefix: joinPath(g.prefix, prefix),
		mws:    append(append([]Middleware(nil), g.mws...), mws...),
	}
}

func (g *Group) register(method, path, name string, h http.HandlerFunc, mws []Middleware) {
	full := joinPath(g.prefix, path)
	stack := append(append([]Middleware(nil), g.mws...), mws...)
	g.router.register(method, full, name, h, stack)
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.register(http.MethodGet, path, name, h, mws)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.register(http.MethodPost, path, name, h, mws)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.register(http.MethodPut, path, name, h, mws)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.register(http.MethodDelete, path, name, h, mws)
}

// ─── Paths ────────────────────────────────────────────────────────────────────

// joinPath glues segments with single slashes; empty input becomes "/".
func joinPath(parts ...string) string {
	var segs []string
	for _, p := range parts {
		if t := strings.Trim(p, "/"); t != "" {
			segs = append(segs, t)
		}
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

func cleanPath(path string) string { return joinPath(path) }
