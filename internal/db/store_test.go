package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	// A second migration over an existing schema must be a no-op.
	require.NoError(t, store.migrate())
}
