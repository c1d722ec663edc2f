// internal/cart/store.go
//
// Cart and session state for one shopper.
//
// Context
// -------
// The backend owns the cart; this store never computes totals or item
// state locally.  Every mutation performs one round trip and, on
// success, replaces the whole local cart with the server's response.
// Two deliberate exceptions:
//
//   • RemoveFromCart resynchronizes with a full fetch after the remove
//     succeeds, because the remove endpoint returns no body.
//   • ClearCart drops the local cart to nil, which *is* the
//     authoritative state after a successful clear.
//
// On any failure the local cart is left exactly as it was and the error
// is returned to the caller for UI-level messaging.
//
// Mutations are not serialized: two racing calls both proceed, and the
// last response to land wins.  The backend is the source of truth, so
// this is safe for totals; callers wanting stricter ordering debounce at
// the UI layer.
//
// Identity
// --------
// Only the customer snapshot and bearer token persist (via the session
// store); the cart is always fetched fresh per session.  A 401 from any
// backend endpoint, not just customer calls, purges the persisted
// credentials.
//
// Notes
// -----
//   - Quantity floors are the caller's job; see the gateway handler.
//   - Oxford commas, two spaces after periods.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/craftflow/storefront/internal/api"
	"github.com/craftflow/storefront/internal/metrics"
	"github.com/craftflow/storefront/internal/session"
)

// Store holds one shopper's cart, identity, and transient UI flags.
// Safe for concurrent use; see the race note above for mutations.
type Store struct {
	client    *api.Client
	sessions  session.Store
	sessionID string

	mu             sync.RWMutex
	cart           *api.Cart
	customer       *api.Customer
	token          string
	authenticated  bool
	loading        bool
	cartOpen       bool
	mobileMenuOpen bool
}

// New builds a Store bound to one guest session, restores any persisted
// identity, and wires the client's token provider and 401 purge hook.
func New(ctx context.Context, client *api.Client, sessions session.Store, sessionID string) (*Store, error) {
	s := &Store{
		client:    client,
		sessions:  sessions,
		sessionID: sessionID,
	}

	rec, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.Token != "" {
		cust := rec.Customer
		s.customer = &cust
		s.token = rec.Token
		s.authenticated = true
	}

	client.SetTokenProvider(s.Token)
	client.SetUnauthorizedHook(s.purgeCredentials)

	return s, nil
}

//
// Cart operations
//

// FetchCart pulls the authoritative cart.
func (s *Store) FetchCart(ctx context.Context) error {
	return s.mutate(ctx, "fetch", func(ctx context.Context) (*api.Cart, bool, error) {
		c, err := s.client.Cart(ctx)
		return c, true, err
	})
}

// AddToCart adds quantity units of a product.  Success also opens the
// cart panel; that side effect is part of the operation's contract, not
// presentation detail.
func (s *Store) AddToCart(ctx context.Context, productID uint64, quantity int) error {
	err := s.mutate(ctx, "add", func(ctx context.Context) (*api.Cart, bool, error) {
		c, err := s.client.AddToCart(ctx, productID, quantity)
		return c, true, err
	})
	if err == nil {
		s.mu.Lock()
		s.cartOpen = true
		s.mu.Unlock()
	}
	return err
}

// UpdateCartItem sets one line's quantity.  Callers must not pass a
// quantity below 1; issue RemoveFromCart instead.
func (s *Store) UpdateCartItem(ctx context.Context, itemID uint64, quantity int) error {
	return s.mutate(ctx, "update", func(ctx context.Context) (*api.Cart, bool, error) {
		c, err := s.client.UpdateCartItem(ctx, itemID, quantity)
		return c, true, err
	})
}

// RemoveFromCart deletes one line, then resynchronizes with a full
// fetch rather than trusting a bodiless response.
func (s *Store) RemoveFromCart(ctx context.Context, itemID uint64) error {
	return s.mutate(ctx, "remove", func(ctx context.Context) (*api.Cart, bool, error) {
		if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
			return nil, false, err
		}
		c, err := s.client.Cart(ctx)
		return c, true, err
	})
}

// ClearCart empties the cart server-side and locally.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(ctx context.Context) (*api.Cart, bool, error) {
		if err := s.client.ClearCart(ctx); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	})
}

// mutate runs one round trip under the loading flag.  replace reports
// whether the returned cart (possibly nil) becomes the new state; on
// error the previous cart is always kept.
func (s *Store) mutate(ctx context.Context, op string, fn func(context.Context) (*api.Cart, bool, error)) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	c, replace, err := fn(ctx)
	if err != nil {
		metrics.CartOpsTotal.WithLabelValues(op, "error").Inc()
		zap.L().Warn("cart operation failed",
			zap.String("op", op),
			zap.String("session", s.sessionID),
			zap.Error(err))
		return err
	}

	if replace {
		s.mu.Lock()
		s.cart = c
		s.mu.Unlock()
	}
	metrics.CartOpsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

//
// Customer operations
//

// SetCustomer installs an authenticated identity and persists it.
func (s *Store) SetCustomer(ctx context.Context, cust api.Customer, token string) error {
	if err := s.sessions.Save(ctx, s.sessionID, &session.Record{
		Token:    token,
		Customer: cust,
	}); err != nil {
		return err
	}

	s.mu.Lock()
	c := cust
	s.customer = &c
	s.token = token
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// Logout clears the identity locally and in the session store.  The
// guest cart, keyed by session id, survives.
func (s *Store) Logout(ctx context.Context) error {
	err := s.sessions.Delete(ctx, s.sessionID)

	s.mu.Lock()
	s.customer = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()
	return err
}

// purgeCredentials is the 401 hook: local credentials are dropped no
// matter which endpoint produced the response, and the durable record
// is deleted best-effort.
func (s *Store) purgeCredentials() {
	s.mu.Lock()
	purged := s.authenticated || s.token != ""
	s.customer = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()

	if purged {
		metrics.AuthPurgeTotal.Inc()
		zap.L().Info("credentials purged after 401",
			zap.String("session", s.sessionID))
	}

	if err := s.sessions.Delete(context.Background(), s.sessionID); err != nil {
		zap.L().Warn("session purge failed",
			zap.String("session", s.sessionID), zap.Error(err))
	}
}

//
// Accessors
//

// Cart returns the current authoritative cart, or nil before the first
// fetch (and after a clear).
func (s *Store) Cart() *api.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

// Customer returns the authenticated customer, or nil.
func (s *Store) Customer() *api.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customer
}

// Token returns the bearer token ("" when unauthenticated).  Installed
// as the API client's token provider.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a customer identity is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Loading reports whether a mutation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SessionID returns the guest session identifier this store is bound to.
func (s *Store) SessionID() string { return s.sessionID }

// Client exposes the bound API client so callers can run credential and
// profile calls under this store's token and purge hook.
func (s *Store) Client() *api.Client { return s.client }

// CartOpen reports the cart-panel flag.
func (s *Store) CartOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartOpen
}

// SetCartOpen sets the cart-panel flag.
func (s *Store) SetCartOpen(open bool) {
	s.mu.Lock()
	s.cartOpen = open
	s.mu.Unlock()
}

// MobileMenuOpen reports the mobile-menu flag.
func (s *Store) MobileMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mobileMenuOpen
}

// SetMobileMenuOpen sets the mobile-menu flag.
func (s *Store) SetMobileMenuOpen(open bool) {
	s.mu.Lock()
	s.mobileMenuOpen = open
	s.mu.Unlock()
}
