package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftflow/storefront/internal/api"
	"github.com/craftflow/storefront/internal/session"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := session.NewMemory()
	ctx := context.Background()
	id := session.NewID()

	// Missing record is (nil, nil).
	rec, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, rec)

	want := &session.Record{
		Token:    "tok-1",
		Customer: api.Customer{ID: 9, Email: "jo@example.com"},
	}
	require.NoError(t, s.Save(ctx, id, want))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)

	// Load hands back a copy, not a shared pointer.
	got.Token = "mutated"
	again, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", again.Token)

	require.NoError(t, s.Delete(ctx, id))
	gone, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Double delete is fine.
	require.NoError(t, s.Delete(ctx, id))
}

func TestNewID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := session.NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
