// internal/gateway/gateway.go
//
// HTTP gateway: router assembly and per-store context.
//
// Context
// -------
// The gateway is the single inbound surface.  Its chain runs, in order:
//
//   1. resolver.Middleware  – host-based tenant resolution and path
//      rewriting, so the router only ever matches canonical paths.
//   2. requestinfo.Enrich   – UA, IP, and geo enrichment for access logs.
//   3. middleware.Security  – response security headers.
//
// Tenant-scoped routes live under /store/{slug} and are gated by
// storeContext, which consults the store-configuration cache before any
// handler runs: an unknown or unpublished slug answers 404, a store in
// maintenance answers 503, and a transient load failure answers 502.
// Legacy single-tenant routes mirror the catalog surface at the root.
//
// Cart and account routes are store-agnostic (the backend keys carts by
// guest session, not by store) and build a request-scoped API client so
// one shopper's bearer token never leaks into another's request.
//
// Notes
// -----
// • Handlers never write the maintenance or not-found strings themselves;
//   the gate owns those responses.
// • Oxford commas, two spaces after periods.

package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craftflow/storefront/internal/api"
	"github.com/craftflow/storefront/internal/cart"
	"github.com/craftflow/storefront/internal/middleware"
	"github.com/craftflow/storefront/internal/requestinfo"
	"github.com/craftflow/storefront/internal/resolver"
	"github.com/craftflow/storefront/internal/session"
	"github.com/craftflow/storefront/internal/store"
)

// Options wires the gateway's collaborators.
type Options struct {
	Resolver resolver.Config
	Stores   *store.Cache
	Sessions session.Store

	// Backend is the shared, unauthenticated client used for catalog
	// reads.  BaseURL and HTTPClient build the request-scoped clients
	// used by cart and account handlers.
	Backend    *api.Client
	BaseURL    string
	HTTPClient *http.Client

	ForceHTTPS bool
}

// Gateway owns the HTTP routing for the storefront.
type Gateway struct {
	opts Options
}

// New constructs a Gateway.  All Options fields except HTTPClient and
// ForceHTTPS are required.
func New(opts Options) *Gateway {
	return &Gateway{opts: opts}
}

// Handler assembles the full middleware chain and route table.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(resolver.Middleware(g.opts.Resolver))
	r.Use(requestinfo.Enrich)
	r.Use(middleware.Security)

	r.Get("/healthz", handleHealthz)

	// Tenant-scoped storefront.
	r.Route("/store/{slug}", func(r chi.Router) {
		r.Use(g.storeContext)
		r.Get("/", g.handleStoreInfo)
		r.Get("/products", g.handleProducts)
		r.Get("/products/{productSlug}", g.handleProduct)
		r.Get("/featured", g.handleFeatured)
		r.Get("/categories", g.handleCategories)
	})

	// Legacy single-tenant catalog.
	r.Get("/products", g.handleProducts)
	r.Get("/products/{productSlug}", g.handleProduct)
	r.Get("/featured", g.handleFeatured)
	r.Get("/categories", g.handleCategories)

	// Cart and account, keyed by guest session.
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", g.handleCart)
		r.Post("/add", g.handleCartAdd)
		r.Put("/update/{itemID}", g.handleCartUpdate)
		r.Delete("/remove/{itemID}", g.handleCartRemove)
		r.Delete("/clear", g.handleCartClear)
	})
	r.Route("/account", func(r chi.Router) {
		r.Post("/login", g.handleLogin)
		r.Post("/register", g.handleRegister)
		r.Post("/logout", g.handleLogout)
		r.Get("/me", g.handleMe)
		r.Put("/me", g.handleUpdateMe)
	})

	var h http.Handler = r
	if g.opts.ForceHTTPS {
		h = middleware.ForceHTTPS(h)
	}
	return h
}

//
// Store context gate
//

type storeCtxKey struct{}

// storeContext resolves the slug's configuration before any scoped
// handler runs, and maps the cache's terminal states to shopper-facing
// responses.
func (g *Gateway) storeContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		cfg, err := g.opts.Stores.Get(r.Context(), slug)
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Store not found")
			return
		case errors.Is(err, store.ErrMaintenance):
			writeError(w, http.StatusServiceUnavailable, "Store is under maintenance")
			return
		case err != nil:
			writeError(w, http.StatusBadGateway, "Store temporarily unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), storeCtxKey{}, cfg)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// storeFrom returns the gated store config, or nil on legacy routes.
func storeFrom(ctx context.Context) *store.Config {
	cfg, _ := ctx.Value(storeCtxKey{}).(*store.Config)
	return cfg
}

// scopeFrom derives the API scope for the current route.
func scopeFrom(r *http.Request) api.Scope {
	if slug := chi.URLParam(r, "slug"); slug != "" {
		return api.Scope{Slug: slug, MultiTenant: true}
	}
	return api.Scope{}
}

//
// Session plumbing
//

// sessionID returns the guest session id for this request, minting one
// and echoing it in the response header when the client has none yet.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if sid := r.Header.Get(api.SessionHeader); sid != "" {
		return sid
	}
	sid := session.NewID()
	w.Header().Set(api.SessionHeader, sid)
	return sid
}

// cartStore builds the request-scoped cart store.  The API client is
// per-request so the restored bearer token stays bound to this shopper.
func (g *Gateway) cartStore(w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	sid := sessionID(w, r)
	opts := []api.Option{api.WithSessionID(func() string { return sid })}
	if g.opts.HTTPClient != nil {
		opts = append(opts, api.WithHTTPClient(g.opts.HTTPClient))
	}
	client := api.New(g.opts.BaseURL, opts...)
	return cart.New(r.Context(), client, g.opts.Sessions, sid)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
