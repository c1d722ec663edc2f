// internal/domainmap/repository_test.go
//
// Unit-tests for the domain_map repository and TTL cache using sqlmock.
//
// Run: go test ./internal/domainmap -v

package domainmap

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

const slugQuery = `
        SELECT slug
        FROM   domain_map
        WHERE  domain     = ?
          AND  verified   = TRUE
          AND  deleted_at IS NULL
        LIMIT  1;`

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestSlugByDomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("shop.acme-widgets.com").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("acme"))

	got, err := repo.SlugByDomain(context.Background(), "shop.acme-widgets.com")
	if err != nil {
		t.Fatalf("SlugByDomain error: %v", err)
	}
	if got != "acme" {
		t.Fatalf("slug = %q, want acme", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSlugByDomain_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("randomshop.io").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SlugByDomain(context.Background(), "randomshop.io")
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCache_PositiveAndNegative(t *testing.T) {
	repo, mock := newMockRepo(t)
	cache := NewCache(repo, time.Minute)

	// One query serves repeated positive lookups within the TTL.
	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("shop.acme-widgets.com").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("acme"))

	for i := 0; i < 3; i++ {
		slug, ok := cache.Lookup(context.Background(), "shop.acme-widgets.com")
		if !ok || slug != "acme" {
			t.Fatalf("lookup %d: (%q, %v)", i, slug, ok)
		}
	}

	// A miss is cached too: one query, repeated (_, false) answers.
	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("randomshop.io").
		WillReturnError(sql.ErrNoRows)

	for i := 0; i < 3; i++ {
		if _, ok := cache.Lookup(context.Background(), "randomshop.io"); ok {
			t.Fatalf("lookup %d: unexpected hit", i)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCache_ErrorDegradesToMiss(t *testing.T) {
	repo, mock := newMockRepo(t)
	cache := NewCache(repo, time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("shop.acme-widgets.com").
		WillReturnError(sql.ErrConnDone)

	if _, ok := cache.Lookup(context.Background(), "shop.acme-widgets.com"); ok {
		t.Fatal("repository error should degrade to a miss")
	}
}

func TestCache_Invalidate(t *testing.T) {
	repo, mock := newMockRepo(t)
	cache := NewCache(repo, time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("shop.acme-widgets.com").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("acme"))
	mock.ExpectQuery(regexp.QuoteMeta(slugQuery)).
		WithArgs("shop.acme-widgets.com").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("acme-two"))

	if slug, _ := cache.Lookup(context.Background(), "shop.acme-widgets.com"); slug != "acme" {
		t.Fatalf("first lookup: %q", slug)
	}
	cache.Invalidate("shop.acme-widgets.com")
	if slug, _ := cache.Lookup(context.Background(), "shop.acme-widgets.com"); slug != "acme-two" {
		t.Fatalf("post-invalidate lookup: %q", slug)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
