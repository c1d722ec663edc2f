// internal/resolver/resolver_test.go
//
// Unit-tests for tenant resolution.
//
// Context
// -------
// Resolution is a pure function, so these are plain table tests covering
// the priority order: pass-through paths, main-site hosts, subdomain
// rewrites, custom-domain lookups, and the idempotence guarantee (an
// already-scoped path is never double-prefixed).

package resolver

import (
	"context"
	"testing"
)

// mapOnly is a DomainMapper backed by a plain map.
type mapOnly map[string]string

func (m mapOnly) Lookup(_ context.Context, domain string) (string, bool) {
	s, ok := m[domain]
	return s, ok
}

func testConfig(mapper DomainMapper) Config {
	return Config{
		MainDomain:      "craftflow.com",
		PreviewSuffix:   ".craftflow.app",
		StorePathPrefix: "/store",
		Mapper:          mapper,
	}
}

func TestResolve_Priority(t *testing.T) {
	cfg := testConfig(mapOnly{"shop.acme-widgets.com": "acme"})

	cases := []struct {
		name      string
		host      string
		path      string
		wantKind  Kind
		wantSlug  string
		wantPath  string
		rewritten bool
	}{
		{"subdomain rewrite", "acme.craftflow.com", "/products",
			KindSubdomain, "acme", "/store/acme/products", true},
		{"subdomain root", "acme.craftflow.com", "/",
			KindSubdomain, "acme", "/store/acme", true},
		{"main domain", "craftflow.com", "/products",
			KindNone, "", "/products", false},
		{"www variant", "www.craftflow.com", "/pricing",
			KindNone, "", "/pricing", false},
		{"localhost", "localhost", "/products",
			KindNone, "", "/products", false},
		{"preview host", "pr-42.craftflow.app", "/",
			KindNone, "", "/", false},
		{"nested labels", "a.b.craftflow.com", "/",
			KindNone, "", "/", false},
		{"www is not a slug", "www.craftflow.com", "/",
			KindNone, "", "/", false},
		{"custom domain mapped", "shop.acme-widgets.com", "/products",
			KindCustomDomain, "acme", "/store/acme/products", true},
		{"unknown host passes through", "randomshop.io", "/products",
			KindNone, "", "/products", false},
		{"static asset skipped", "acme.craftflow.com", "/_next/chunk.js",
			KindNone, "", "/_next/chunk.js", false},
		{"api path skipped", "acme.craftflow.com", "/api/storefront/cart/",
			KindNone, "", "/api/storefront/cart/", false},
		{"metrics skipped", "acme.craftflow.com", "/metrics",
			KindNone, "", "/metrics", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cfg.Resolve(context.Background(), tc.host, tc.path)
			if got.Identity.Kind != tc.wantKind {
				t.Fatalf("kind = %q, want %q", got.Identity.Kind, tc.wantKind)
			}
			if got.Identity.Slug != tc.wantSlug {
				t.Fatalf("slug = %q, want %q", got.Identity.Slug, tc.wantSlug)
			}
			if got.Path != tc.wantPath {
				t.Fatalf("path = %q, want %q", got.Path, tc.wantPath)
			}
			if got.Rewritten != tc.rewritten {
				t.Fatalf("rewritten = %v, want %v", got.Rewritten, tc.rewritten)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	cfg := testConfig(nil)

	first := cfg.Resolve(context.Background(), "acme.craftflow.com", "/products")
	if first.Path != "/store/acme/products" {
		t.Fatalf("first pass: %q", first.Path)
	}

	// Re-resolving the rewritten path must not double-prefix.
	second := cfg.Resolve(context.Background(), "acme.craftflow.com", first.Path)
	if second.Rewritten {
		t.Fatal("second pass rewrote an already-scoped path")
	}
	if second.Path != first.Path {
		t.Fatalf("second pass mutated path: %q", second.Path)
	}
	if second.Identity.Kind != KindPathSlug || second.Identity.Slug != "acme" {
		t.Fatalf("identity not recovered from scoped path: %+v", second.Identity)
	}
}

func TestResolve_MapperFailureDegrades(t *testing.T) {
	// A nil mapper must behave exactly like a lookup miss.
	cfg := testConfig(nil)

	got := cfg.Resolve(context.Background(), "shop.acme-widgets.com", "/products")
	if got.Rewritten || got.Identity.Kind != KindNone {
		t.Fatalf("custom domain without mapper should pass through, got %+v", got)
	}
}

func TestValidSlug(t *testing.T) {
	for slug, want := range map[string]bool{
		"acme":       true,
		"acme-2":     true,
		"":           false,
		"www":        false,
		"-acme":      false,
		"acme-":      false,
		"Acme":       false,
		"a_b":        false,
		"café":       false,
		"north-shop": true,
	} {
		if got := validSlug(slug); got != want {
			t.Errorf("validSlug(%q) = %v, want %v", slug, got, want)
		}
	}
}
