package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rishavanand/bazario/pkg/router"
)

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Get("/api/product/{slug}", "product.show", func(w http.ResponseWriter, req *http.Request) {})

	url, err := r.URL("product.show", map[string]string{"slug": "wireless-keyboard"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/api/product/wireless-keyboard" {
		t.Errorf("url = %q", url)
	}
}

func TestURLMissingParam(t *testing.T) {
	r := router.New()
	r.Get("/api/order-status/{orderId}", "order.status", func(w http.ResponseWriter, req *http.Request) {})

	if _, err := r.URL("order.status", nil); err == nil {
		t.Error("expected an error for missing parameters")
	}
	if _, err := r.URL("no.such.route", nil); err == nil {
		t.Error("expected an error for an unknown route name")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mw("outer"))
	auth := api.Group("/auth", mw("inner"))
	auth.Get("/profile", "auth.profile", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestParam(t *testing.T) {
	r := router.New()
	var got string
	r.Get("/api/category/{slug}", "category.show", func(w http.ResponseWriter, req *http.Request) {
		got = router.Param(req, "slug")
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/category/books", nil))

	if got != "books" {
		t.Errorf("param = %q", got)
	}
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	h := func(w http.ResponseWriter, req *http.Request) {}
	r.Post("/api/category/create", "category.create", h)
	r.Get("/api/category", "category.list", h)
	r.Delete("/api/category/{id}", "category.delete", h)

	routes := r.Routes()
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	for i := 1; i < len(routes); i++ {
		if routes[i-1].Path > routes[i].Path {
			t.Errorf("routes not sorted: %q before %q", routes[i-1].Path, routes[i].Path)
		}
	}
}

func TestMethodNotMatched(t *testing.T) {
	r := router.New()
	r.Post("/api/auth/login", "auth.login", func(w http.ResponseWriter, req *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
