// internal/gateway/catalog.go
//
// Store-info and catalog handlers.
//
// All catalog handlers serve both route families: under /store/{slug}
// they run behind the storeContext gate with a tenant scope, and at the
// root they fall back to the legacy single-tenant backend.  The scope is
// rebuilt per request from the matched route, never cached.

package gateway

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/craftflow/storefront/internal/api"
)

// storeInfoResponse is the public shape of one store's configuration.
// Publication and maintenance never appear here; the gate already
// filtered them.
type storeInfoResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Branding    struct {
		PrimaryColor    string `json:"primary_color"`
		SecondaryColor  string `json:"secondary_color"`
		TextColor       string `json:"text_color"`
		BackgroundColor string `json:"background_color"`
	} `json:"branding"`
}

func (g *Gateway) handleStoreInfo(w http.ResponseWriter, r *http.Request) {
	cfg := storeFrom(r.Context())
	if cfg == nil {
		// Unreachable behind the gate; defends against route misuse.
		writeError(w, http.StatusNotFound, "Store not found")
		return
	}

	var resp storeInfoResponse
	resp.Slug = cfg.Slug
	resp.Name = cfg.Name
	resp.Description = cfg.Description
	resp.LogoURL = cfg.LogoURL
	resp.Branding.PrimaryColor = cfg.Branding.PrimaryColor
	resp.Branding.SecondaryColor = cfg.Branding.SecondaryColor
	resp.Branding.TextColor = cfg.Branding.TextColor
	resp.Branding.BackgroundColor = cfg.Branding.BackgroundColor
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := productQuery(r)

	if q.Get("featured") == "true" {
		query.Featured = true
	}

	page, err := g.opts.Backend.Products(r.Context(), scopeFrom(r), query)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (g *Gateway) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := g.opts.Backend.ProductBySlug(r.Context(), scopeFrom(r), chi.URLParam(r, "productSlug"))
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (g *Gateway) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := g.opts.Backend.Featured(r.Context(), scopeFrom(r), limit)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (g *Gateway) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := g.opts.Backend.Categories(r.Context(), scopeFrom(r))
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// productQuery lifts the supported listing filters off the request.
func productQuery(r *http.Request) api.ProductQuery {
	v := r.URL.Query()
	var q api.ProductQuery
	q.Page, _ = strconv.Atoi(v.Get("page"))
	q.PageSize, _ = strconv.Atoi(v.Get("page_size"))
	q.Category = v.Get("category")
	q.Search = v.Get("search")
	q.Sort = v.Get("sort")
	q.Order = v.Get("order")
	return q
}
