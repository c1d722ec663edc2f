// internal/resolver/middleware_test.go
//
// Unit-tests for the tenant-rewrite middleware.
//
// Context
// -------
// The middleware mutates r.URL.Path on rewrite and stores the resolved
// Identity in the request context.  These tests verify:
//
//   • Subdomain host → path rewritten, identity visible downstream.
//   • Main-site host  → path untouched, identity KindNone.
//   • Scoped path     → untouched on a second pass (idempotence).

package resolver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_SubdomainRewrite(t *testing.T) {
	cfg := testConfig(nil)

	var gotPath string
	var gotID Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Host = "acme.craftflow.com:443"
	rr := httptest.NewRecorder()

	Middleware(cfg)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotPath != "/store/acme/products" {
		t.Fatalf("rewrite failed: got path %q", gotPath)
	}
	if gotID.Kind != KindSubdomain || gotID.Slug != "acme" {
		t.Fatalf("identity = %+v", gotID)
	}
}

func TestMiddleware_MainSite_NoMutation(t *testing.T) {
	cfg := testConfig(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pricing" {
			t.Fatalf("path mutated for main site: %q", r.URL.Path)
		}
		if id := FromContext(r.Context()); id.MultiTenant() {
			t.Fatalf("main site got tenant identity: %+v", id)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	req.Host = "www.craftflow.com"
	rr := httptest.NewRecorder()

	Middleware(cfg)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestMiddleware_ScopedPath_Idempotent(t *testing.T) {
	cfg := testConfig(nil)

	var gotPath string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	// Simulate a request whose path was already rewritten upstream.
	req := httptest.NewRequest(http.MethodGet, "/store/acme/products", nil)
	req.Host = "acme.craftflow.com"
	rr := httptest.NewRecorder()

	Middleware(cfg)(next).ServeHTTP(rr, req)

	if gotPath != "/store/acme/products" {
		t.Fatalf("double prefix: %q", gotPath)
	}
}

func TestFromContext_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := FromContext(req.Context()); id.Kind != KindNone {
		t.Fatalf("zero identity kind = %q, want none", id.Kind)
	}
}
