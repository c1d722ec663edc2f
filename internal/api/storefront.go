// internal/api/storefront.go
//
// Cart and customer operations against the storefront backend.
//
// Context
// -------
// The cart is server-owned, keyed by the guest session header or the
// authenticated customer.  Add and update return the full authoritative
// cart; remove and clear return no body, so callers resynchronize with a
// follow-up Cart call.  Customer endpoints cover login, registration,
// and profile reads/writes.
//
// Notes
// -----
// • Monetary fields are decimal values as the backend serialises them.
// • Oxford commas, two spaces after periods.

package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"
)

//
// Cart types
//

// CartItem is one line of a server-owned cart.
type CartItem struct {
	ID          uint64  `json:"id"`
	ProductID   uint64  `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug"`
	ImageURL    string  `json:"image_url"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the authoritative server response for every cart operation
// that returns a body.
type Cart struct {
	ID        uint64     `json:"id"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    bool       `json:"active"`
}

// SubtotalConsistent reports whether the cart-level subtotal equals the
// sum of the item subtotals, within a half-cent of float tolerance.  The
// client never recomputes totals; this only validates accepted fixtures.
func (c *Cart) SubtotalConsistent() bool {
	var sum float64
	for _, it := range c.Items {
		sum += it.Subtotal
	}
	return math.Abs(sum-c.Subtotal) < 0.005
}

//
// Customer types
//

// Customer is the profile snapshot held alongside the auth token.
type Customer struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token    string   `json:"token"`
	Customer Customer `json:"customer"`
}

// RegisterRequest creates a customer account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

//
// Cart operations
//

// Cart fetches the current cart for the session or customer.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/storefront/cart/", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product and returns the full cart.
func (c *Client) AddToCart(ctx context.Context, productID uint64, quantity int) (*Cart, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/api/storefront/cart/add", nil, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem sets the quantity of one line and returns the full cart.
func (c *Client) UpdateCartItem(ctx context.Context, itemID uint64, quantity int) (*Cart, error) {
	body := map[string]any{"quantity": quantity}
	var cart Cart
	err := c.do(ctx, http.MethodPut, "/api/storefront/cart/update/"+itoa(itemID), nil, body, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one line.  No body is returned; callers re-fetch.
func (c *Client) RemoveCartItem(ctx context.Context, itemID uint64) error {
	return c.do(ctx, http.MethodDelete, "/api/storefront/cart/remove/"+itoa(itemID), nil, nil, nil)
}

// ClearCart empties the cart.  No body is returned.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/storefront/cart/clear", nil, nil, nil)
}

//
// Customer operations
//

// Login exchanges credentials for a token and profile snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/storefront/customers/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/storefront/customers/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated customer's profile.
func (c *Client) Me(ctx context.Context) (*Customer, error) {
	var cust Customer
	if err := c.do(ctx, http.MethodGet, "/api/storefront/customers/me", nil, nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// UpdateMe writes the profile and returns the stored copy.
func (c *Client) UpdateMe(ctx context.Context, cust Customer) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPut, "/api/storefront/customers/me", nil, cust, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }
