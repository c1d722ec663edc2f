// internal/resolver/resolver.go
//
// Tenant resolution: (host, path) → identity + optional path rewrite.
//
// Context
// -------
// Every inbound request belongs to exactly one tenant, or to the main
// marketing site.  Resolution is a pure function of the Host header, the
// URL path, and static configuration; it is re-derived per request and
// never cached at this layer.  Priority order, first match wins:
//
//  1. Static assets, internal routes, and already-scoped paths pass
//     through unmodified (re-resolving a scoped path must not
//     double-prefix it).
//  2. The main domain, its www variant, local-development hosts, and
//     platform preview hosts pass through with identity none.
//  3. A host that is exactly one label in front of the main domain is a
//     subdomain tenant; the path is rewritten under the store prefix.
//  4. Any other host is a custom domain.  The optional DomainMapper is
//     consulted; a hit rewrites like the subdomain case, a miss falls
//     through to main-site behaviour.
//
// Notes
// -----
// • No failure states: every input maps to a defined Resolution.
// • Oxford commas, two spaces after periods.

package resolver

import (
	"context"
	"strings"
)

//
// Identity
//

// Kind names the resolution path that produced an Identity.
type Kind string

const (
	KindNone         Kind = "none"
	KindPathSlug     Kind = "path"
	KindSubdomain    Kind = "subdomain"
	KindCustomDomain Kind = "custom_domain"
)

// Identity is the resolved tenant of one request.  Slug is empty only for
// KindNone.
type Identity struct {
	Kind Kind
	Slug string
	Host string
}

// MultiTenant reports whether the request is scoped to a tenant.
func (id Identity) MultiTenant() bool { return id.Kind != KindNone && id.Slug != "" }

// Resolution is the outcome of one Resolve call.  Path always holds a
// servable path; Rewritten is true when it differs from the input.
type Resolution struct {
	Identity  Identity
	Path      string
	Rewritten bool
}

//
// Configuration
//

// DomainMapper looks up the tenant slug owning a full custom domain.  A
// miss is (_, false), never an error; lookup failures must degrade to a
// miss so resolution stays total.
type DomainMapper interface {
	Lookup(ctx context.Context, domain string) (string, bool)
}

// Config is the static input to resolution.  Zero values for optional
// fields disable the corresponding branch.
type Config struct {
	MainDomain      string       // "craftflow.com", required
	PreviewSuffix   string       // ".craftflow.app" preview deploys, optional
	StorePathPrefix string       // "/store"
	Mapper          DomainMapper // optional custom-domain lookup
}

// skipPrefixes are paths never subject to tenant rewriting: framework
// internals, static assets, and the service's own endpoints.
var skipPrefixes = []string{
	"/_next/",
	"/static/",
	"/assets/",
	"/api/",
	"/metrics",
	"/healthz",
	"/favicon.ico",
}

//
// Resolution
//

// Resolve derives the tenant identity for (host, path).  host must
// already be stripped of any :port suffix.
func (c Config) Resolve(ctx context.Context, host, path string) Resolution {
	if path == "" {
		path = "/"
	}

	// 1. Pass-through paths.
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return Resolution{Identity: Identity{Kind: KindNone, Host: host}, Path: path}
		}
	}
	if slug, ok := c.scopedSlug(path); ok {
		// Already scoped; identity is recoverable from the path itself.
		return Resolution{
			Identity: Identity{Kind: KindPathSlug, Slug: slug, Host: host},
			Path:     path,
		}
	}

	// 2. Main site, local development, and preview hosts.
	if c.isMainSite(host) {
		return Resolution{Identity: Identity{Kind: KindNone, Host: host}, Path: path}
	}

	// 3. Subdomain tenants.
	if suffix := "." + c.MainDomain; strings.HasSuffix(host, suffix) {
		rest := strings.TrimSuffix(host, suffix)
		labels := strings.Split(rest, ".")
		if len(labels) == 1 && validSlug(labels[0]) {
			slug := labels[0]
			return Resolution{
				Identity:  Identity{Kind: KindSubdomain, Slug: slug, Host: host},
				Path:      c.scopedPath(slug, path),
				Rewritten: true,
			}
		}
		// Nested labels under the main domain have no defined tenant.
		return Resolution{Identity: Identity{Kind: KindNone, Host: host}, Path: path}
	}

	// 4. Custom domains need a server-side slug lookup.
	if c.Mapper != nil {
		if slug, ok := c.Mapper.Lookup(ctx, host); ok && validSlug(slug) {
			return Resolution{
				Identity:  Identity{Kind: KindCustomDomain, Slug: slug, Host: host},
				Path:      c.scopedPath(slug, path),
				Rewritten: true,
			}
		}
	}

	// Unknown host: fall through to main-site behaviour.
	return Resolution{Identity: Identity{Kind: KindNone, Host: host}, Path: path}
}

//
// helpers
//

func (c Config) prefix() string {
	if c.StorePathPrefix != "" {
		return c.StorePathPrefix
	}
	return "/store"
}

// scopedSlug extracts the slug when path is already under the store
// prefix, e.g. "/store/acme/products" → ("acme", true).
func (c Config) scopedSlug(path string) (string, bool) {
	p := c.prefix() + "/"
	if !strings.HasPrefix(path, p) {
		return "", false
	}
	rest := strings.TrimPrefix(path, p)
	slug := rest
	if i := strings.IndexByte(rest, '/'); i != -1 {
		slug = rest[:i]
	}
	if !validSlug(slug) {
		return "", false
	}
	return slug, true
}

// scopedPath prepends the store prefix and slug to the original path.
func (c Config) scopedPath(slug, path string) string {
	if path == "/" {
		return c.prefix() + "/" + slug
	}
	return c.prefix() + "/" + slug + path
}

// isMainSite reports whether host is the marketing site, a www variant,
// a local-development host, or a platform preview host.
func (c Config) isMainSite(host string) bool {
	switch host {
	case c.MainDomain, "www." + c.MainDomain, "localhost", "127.0.0.1":
		return true
	}
	return c.PreviewSuffix != "" && strings.HasSuffix(host, c.PreviewSuffix)
}

// validSlug accepts lower-kebab ASCII: a-z, 0-9, and "-", non-empty, and
// neither leading nor trailing dash.  "www" is reserved.
func validSlug(s string) bool {
	if s == "" || s == "www" {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		r := s[i]
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

//
// request-context plumbing
//

type ctxKey struct{} // unexported, collision-proof

// WithIdentity returns ctx carrying id for downstream handlers.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the Identity stored by the middleware.  The zero
// Identity (KindNone equivalent) is returned when the middleware has not
// run.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	if id.Kind == "" {
		id.Kind = KindNone
	}
	return id
}
