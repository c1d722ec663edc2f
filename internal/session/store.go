// internal/session/store.go
//
// Customer-identity persistence.
//
// Context
// -------
// Only the authenticated customer snapshot and its bearer token survive
// across sessions; the cart itself is always re-fetched fresh so it can
// never go stale against server-side expiry.  Records are keyed by the
// guest session identifier, a client-generated UUID that also rides the
// X-Guest-Session header on every cart call.
//
// Store is the persistence boundary: a Redis implementation for
// production and an in-memory one for tests.
//
// Notes
// -----
//   - A missing record is (nil, nil), not an error.
//   - Oxford commas, two spaces after periods.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/craftflow/storefront/internal/api"
)

// DefaultTTL matches the backend's guest-cart expiry window, so orphaned
// identities age out alongside their carts.
const DefaultTTL = 30 * 24 * time.Hour

// Record is the durable slice of a shopper's state.
type Record struct {
	Token    string       `json:"token"`
	Customer api.Customer `json:"customer"`
}

// Store persists Records keyed by guest session id.
type Store interface {
	// Load returns the record for id, or (nil, nil) when none exists.
	Load(ctx context.Context, id string) (*Record, error)

	// Save writes the record for id, refreshing its TTL.
	Save(ctx context.Context, id string, rec *Record) error

	// Delete removes the record for id.  Deleting a missing record is
	// not an error.
	Delete(ctx context.Context, id string) error
}

// NewID mints a guest session identifier.
func NewID() string { return uuid.NewString() }
