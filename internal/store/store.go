// internal/store/store.go
//
// Store configuration aggregate and cache entry.
//
// Context
// -------
// A Config holds everything the storefront needs to serve one tenant:
// identity, branding, and the publication/maintenance flags the gateway
// switches on.  The cache stores a pointer to Config inside `entry`,
// along with a `lastSeen` UnixNano timestamp used by the evictor for
// idle and LRU eviction.  An entry may instead carry a terminal error
// (not found, maintenance); both shapes count as "resolved" and are
// immutable for the life of the entry.
//
// Notes
// -----
//   - Handlers must treat Config as read-only after load; a stale config
//     is refreshed only by eviction or explicit invalidation.
//   - Oxford commas, two spaces after periods.
package store

import "errors"

// Terminal resolution errors.  Both are cached: re-mounting the same
// slug must not re-fetch, and the distinction drives the gateway's
// not-found versus maintenance pages.
var (
	// ErrNotFound covers a missing record and an unpublished store; the
	// two are indistinguishable to shoppers.
	ErrNotFound = errors.New("store not found")

	// ErrMaintenance is a published store with its maintenance flag set.
	ErrMaintenance = errors.New("store is under maintenance")
)

//
// Config aggregate
//

// Branding is the enumerated set of style fields threaded to the UI.
// Always passed by value; no ambient style props.
type Branding struct {
	PrimaryColor    string
	SecondaryColor  string
	TextColor       string
	BackgroundColor string
}

// Config is one tenant's storefront configuration.
type Config struct {
	Slug        string
	Name        string
	Description string
	LogoURL     string
	Branding    Branding
	Published   bool
	Maintenance bool
	OwnerID     uint64
}

//
// Cache entry
//

type entry struct {
	cfg      *Config // nil when err is set
	err      error   // ErrNotFound or ErrMaintenance, nil on success
	lastSeen int64   // UnixNano
}
