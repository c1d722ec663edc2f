// internal/api/catalog.go
//
// Store-aware catalog operations.
//
// Context
// -------
// Each operation produces a different request depending on whether a
// tenant scope is active.  With a scope, calls route through the
// tenant-scoped family `/api/store/{slug}/...`; without one, they fall
// back to the legacy single-tenant family `/api/products...`, which
// additionally supports a `featured` boolean filter but has no
// categories endpoint (Categories returns an empty listing there to keep
// the calling contract uniform).
//
// The scope is taken from the caller at call time, typically built from
// the request's resolved identity, and never cached inside the client.
//
// Notes
// -----
// • All query parameters are optional; zero values are omitted.
// • Oxford commas, two spaces after periods.

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

//
// Scope
//

// Scope selects the endpoint family for one call.  The zero value is
// legacy single-tenant mode.
type Scope struct {
	Slug        string
	MultiTenant bool
}

func (s Scope) storePath(suffix string) string {
	return "/api/store/" + s.Slug + suffix
}

//
// Catalog types
//

// Product is one catalog entry.
type Product struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Featured    bool    `json:"featured"`
	InStock     bool    `json:"in_stock"`
}

// ProductPage is one page of a listing.
type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Category is one catalog category with its live product count.
type Category struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"product_count"`
}

// ProductQuery carries the optional listing filters.  Featured is only
// honoured by the legacy family.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
	Sort     string
	Order    string
	Featured bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

//
// Operations
//

// Products lists products under the given scope.
func (c *Client) Products(ctx context.Context, scope Scope, q ProductQuery) (*ProductPage, error) {
	path := "/api/products"
	vals := q.values()
	if scope.MultiTenant {
		path = scope.storePath("/products")
	} else if q.Featured {
		vals.Set("featured", "true")
	}

	var page ProductPage
	if err := c.do(ctx, http.MethodGet, path, vals, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ProductBySlug fetches one product; a miss surfaces as ErrNotFound.
func (c *Client) ProductBySlug(ctx context.Context, scope Scope, productSlug string) (*Product, error) {
	path := "/api/products/" + productSlug
	if scope.MultiTenant {
		path = scope.storePath("/products/" + productSlug)
	}

	var p Product
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Featured lists up to limit featured products.  The legacy family has
// no dedicated endpoint, so the listing filter stands in for it.
func (c *Client) Featured(ctx context.Context, scope Scope, limit int) ([]Product, error) {
	if scope.MultiTenant {
		vals := url.Values{}
		if limit > 0 {
			vals.Set("limit", strconv.Itoa(limit))
		}
		var items []Product
		if err := c.do(ctx, http.MethodGet, scope.storePath("/featured"), vals, nil, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	page, err := c.Products(ctx, scope, ProductQuery{Featured: true, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Categories lists the store's categories.  Legacy mode has no
// categories endpoint; it reports an empty listing rather than an error
// so callers need not branch on mode.
func (c *Client) Categories(ctx context.Context, scope Scope) ([]Category, error) {
	if !scope.MultiTenant {
		return []Category{}, nil
	}

	var cats []Category
	if err := c.do(ctx, http.MethodGet, scope.storePath("/categories"), nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}
