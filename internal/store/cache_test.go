package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftflow/storefront/internal/store"
)

// countingLoader serves canned configs and counts Load calls per slug.
type countingLoader struct {
	mu      sync.Mutex
	calls   map[string]int
	configs map[string]*store.Config
	errs    map[string]error
	delay   time.Duration
}

func newCountingLoader() *countingLoader {
	return &countingLoader{
		calls:   make(map[string]int),
		configs: make(map[string]*store.Config),
		errs:    make(map[string]error),
	}
}

func (l *countingLoader) Load(_ context.Context, slug string) (*store.Config, error) {
	l.mu.Lock()
	l.calls[slug]++
	cfg, err := l.configs[slug], l.errs[slug]
	delay := l.delay
	l.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, store.ErrNotFound
	}
	return cfg, nil
}

func (l *countingLoader) count(slug string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[slug]
}

func published(slug string) *store.Config {
	return &store.Config{Slug: slug, Name: slug, Published: true}
}

func TestCache_SingleFetchPerSlug(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	loader.configs["acme"] = published("acme")
	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cfg, err := cache.Get(context.Background(), "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", cfg.Slug)
	}

	assert.Equal(t, 1, loader.count("acme"), "N mounts of one slug must fetch once")
}

func TestCache_ConcurrentGetsCollapse(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	loader.configs["acme"] = published("acme")
	loader.delay = 20 * time.Millisecond
	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background(), "acme"); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Equal(t, 1, loader.count("acme"), "racing gets must collapse into one load")
}

func TestCache_Classification(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	loader.configs["ghost"] = nil // loader answers ErrNotFound
	loader.configs["draft"] = &store.Config{Slug: "draft", Published: false}
	loader.configs["closed"] = &store.Config{Slug: "closed", Published: true, Maintenance: true}
	// Maintenance outranks publication only when published.
	loader.configs["dark"] = &store.Config{Slug: "dark", Published: false, Maintenance: true}

	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()
	ctx := context.Background()

	_, err := cache.Get(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = cache.Get(ctx, "draft")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = cache.Get(ctx, "closed")
	assert.ErrorIs(t, err, store.ErrMaintenance)

	_, err = cache.Get(ctx, "dark")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCache_TerminalErrorsAreCached(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()

	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background(), "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
	assert.Equal(t, 1, loader.count("ghost"), "not-found must not re-fetch per request")
}

func TestCache_TransientErrorsRetry(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	netErr := errors.New("connection refused")
	loader.errs["acme"] = netErr
	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "acme")
	assert.ErrorIs(t, err, netErr)

	// Backend recovers; the next Get must reach the loader again.
	loader.mu.Lock()
	delete(loader.errs, "acme")
	loader.configs["acme"] = published("acme")
	loader.mu.Unlock()

	cfg, err := cache.Get(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Slug)
	assert.Equal(t, 2, loader.count("acme"))
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	loader.configs["acme"] = published("acme")
	cache := store.New(loader, store.IdleTTL, store.MaxEntries)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "acme")
	require.NoError(t, err)

	cache.Invalidate("acme")

	_, err = cache.Get(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.count("acme"))
}
