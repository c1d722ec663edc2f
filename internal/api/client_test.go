package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftflow/storefront/internal/api"
)

// record captures the last request seen by the fake backend.
type record struct {
	method  string
	path    string
	query   string
	headers http.Header
}

func newBackend(t *testing.T, status int, body any) (*httptest.Server, *record) {
	t.Helper()
	rec := &record{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.headers = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestProducts_TenantScoped(t *testing.T) {
	t.Parallel()

	srv, rec := newBackend(t, http.StatusOK, api.ProductPage{Page: 1})
	c := api.New(srv.URL)

	scope := api.Scope{Slug: "acme", MultiTenant: true}
	_, err := c.Products(context.Background(), scope, api.ProductQuery{
		Page: 2, PageSize: 24, Category: "mugs", Search: "blue", Sort: "price", Order: "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/store/acme/products", rec.path)
	assert.Contains(t, rec.query, "page=2")
	assert.Contains(t, rec.query, "page_size=24")
	assert.Contains(t, rec.query, "category=mugs")
	assert.Contains(t, rec.query, "search=blue")
	assert.Contains(t, rec.query, "sort=price")
	assert.Contains(t, rec.query, "order=asc")
}

func TestProducts_LegacyFeatured(t *testing.T) {
	t.Parallel()

	srv, rec := newBackend(t, http.StatusOK, api.ProductPage{})
	c := api.New(srv.URL)

	_, err := c.Products(context.Background(), api.Scope{}, api.ProductQuery{Featured: true})
	require.NoError(t, err)

	assert.Equal(t, "/api/products", rec.path)
	assert.Contains(t, rec.query, "featured=true")
}

func TestFeatured_ScopeSwitch(t *testing.T) {
	t.Parallel()

	srv, rec := newBackend(t, http.StatusOK, []api.Product{{Slug: "mug"}})
	c := api.New(srv.URL)

	items, err := c.Featured(context.Background(), api.Scope{Slug: "acme", MultiTenant: true}, 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/api/store/acme/featured", rec.path)
	assert.Equal(t, "limit=4", rec.query)
}

func TestCategories_LegacyEmpty(t *testing.T) {
	t.Parallel()

	// No server at all: legacy mode must not issue a request.
	c := api.New("http://127.0.0.1:0")

	cats, err := c.Categories(context.Background(), api.Scope{})
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestCorrelationHeaders(t *testing.T) {
	t.Parallel()

	srv, rec := newBackend(t, http.StatusOK, api.Cart{Active: true})
	c := api.New(srv.URL,
		api.WithSessionID(func() string { return "guest-123" }),
		api.WithToken(func() string { return "tok-456" }),
	)

	_, err := c.Cart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "guest-123", rec.headers.Get(api.SessionHeader))
	assert.Equal(t, "Bearer tok-456", rec.headers.Get("Authorization"))
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	t.Run("404 is ErrNotFound", func(t *testing.T) {
		t.Parallel()
		srv, _ := newBackend(t, http.StatusNotFound, nil)
		c := api.New(srv.URL)

		_, err := c.ProductBySlug(context.Background(), api.Scope{}, "missing")
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("500 carries message", func(t *testing.T) {
		t.Parallel()
		srv, _ := newBackend(t, http.StatusInternalServerError,
			map[string]string{"error": "catalog unavailable"})
		c := api.New(srv.URL)

		_, err := c.Products(context.Background(), api.Scope{}, api.ProductQuery{})
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "catalog unavailable", apiErr.Message)
	})
}

func TestUnauthorizedHook_FiresForAnyEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newBackend(t, http.StatusUnauthorized, nil)
	c := api.New(srv.URL)

	fired := 0
	c.SetUnauthorizedHook(func() { fired++ })

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, fired)

	// A different endpoint trips the same hook.
	_, err = c.Cart(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 2, fired)
}

func TestCartMutationPaths(t *testing.T) {
	t.Parallel()

	srv, rec := newBackend(t, http.StatusOK, api.Cart{Active: true})
	c := api.New(srv.URL)
	ctx := context.Background()

	_, err := c.AddToCart(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/storefront/cart/add", rec.path)

	_, err = c.UpdateCartItem(ctx, 31, 3)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/storefront/cart/update/31", rec.path)

	require.NoError(t, c.RemoveCartItem(ctx, 31))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/storefront/cart/remove/31", rec.path)

	require.NoError(t, c.ClearCart(ctx))
	assert.Equal(t, "/api/storefront/cart/clear", rec.path)
}

func TestSubtotalConsistent(t *testing.T) {
	t.Parallel()

	cart := api.Cart{
		Subtotal: 59.97,
		Items: []api.CartItem{
			{UnitPrice: 19.99, Quantity: 2, Subtotal: 39.98},
			{UnitPrice: 19.99, Quantity: 1, Subtotal: 19.99},
		},
	}
	assert.True(t, cart.SubtotalConsistent())

	cart.Subtotal = 61.00
	assert.False(t, cart.SubtotalConsistent())
}
