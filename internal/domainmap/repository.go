// internal/domainmap/repository.go
//
// Custom-domain → tenant-slug lookup table.
//
// Context
// -------
// Subdomain tenants resolve client-side from the Host header alone, but a
// full custom domain (shop.acme-widgets.com) carries no recognisable
// relation to the main domain.  The mapping lives in the control-plane
// `domain_map` table and is consulted by the resolver through the cache
// in cache.go.  Rows soft-delete via `deleted_at`, and only verified
// domains (DNS ownership proven) are served.
//
// Notes
// -----
// • Lookup misses return ErrNotFound, never a zero Record.
// • Oxford commas, two spaces after periods.

package domainmap

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a domain has no active mapping.
var ErrNotFound = errors.New("domain mapping not found")

// Record mirrors one row in the persistent `domain_map` table.
type Record struct {
	ID         uint64     `db:"id"`
	Domain     string     `db:"domain"`
	Slug       string     `db:"slug"`
	Verified   bool       `db:"verified"`
	DeletedAt  *time.Time `db:"deleted_at"`
	CreatedAt  time.Time  `db:"created_at"`
	VerifiedAt *time.Time `db:"verified_at"`
}

// Repository reads the domain_map table.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open control-plane pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// SlugByDomain fetches the tenant slug owning one verified, non-deleted
// domain.  The caller supplies a context so the lookup respects request
// deadlines.
func (r *Repository) SlugByDomain(ctx context.Context, domain string) (string, error) {
	const q = `
        SELECT slug
        FROM   domain_map
        WHERE  domain     = ?
          AND  verified   = TRUE
          AND  deleted_at IS NULL
        LIMIT  1;`

	var slug string
	if err := r.db.GetContext(ctx, &slug, q, domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return slug, nil
}

// AllVerified returns every active mapping.  Used by the cache warm-up
// path and admin tooling, not by per-request resolution.
func (r *Repository) AllVerified(ctx context.Context) ([]Record, error) {
	const q = `
        SELECT id, domain, slug, verified, deleted_at, created_at, verified_at
        FROM   domain_map
        WHERE  verified   = TRUE
          AND  deleted_at IS NULL`

	var rows []Record
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
