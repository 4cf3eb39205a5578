package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "quantum", `[{"id":"1234.5678"}]`, 1))

	got, err := store.CachedResults("arxiv", "quantum")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1234.5678"}]`, got)
}

func TestCacheMiss(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CachedResults("arxiv", "nothing cached")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheReplacesPriorEntry(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "quantum", `["old"]`, 1))
	require.NoError(t, store.CacheResults("arxiv", "quantum", `["new"]`, 1))

	got, err := store.CachedResults("arxiv", "quantum")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, got)

	var count int
	err = store.DB().QueryRow(
		`SELECT COUNT(*) FROM search_cache WHERE extension_name = 'arxiv' AND query = 'quantum'`).
		Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "repeat cache writes must refresh, not append")
}

func TestCacheKeyIsLiteralQueryText(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "Quantum", `["upper"]`, 1))

	_, err := store.CachedResults("arxiv", "quantum")
	assert.ErrorIs(t, err, ErrNotFound, "differently-cased queries are distinct cache entries")
}

func TestCacheExpiry(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "quantum", `["payload"]`, 1))

	// Simulate two hours elapsing by backdating the expiry.
	_, err := store.DB().Exec(
		`UPDATE search_cache SET expires_at = ? WHERE extension_name = 'arxiv' AND query = 'quantum'`,
		time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = store.CachedResults("arxiv", "quantum")
	assert.ErrorIs(t, err, ErrNotFound, "expired entries must read as absent, never stale")
}

func TestCacheExpiryBoundary(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "quantum", `["payload"]`, 1))

	// Exactly at expires_at counts as expired.
	_, err := store.DB().Exec(
		`UPDATE search_cache SET expires_at = ? WHERE extension_name = 'arxiv' AND query = 'quantum'`,
		time.Now().UTC())
	require.NoError(t, err)

	_, err = store.CachedResults("arxiv", "quantum")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearExpiredCache(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheResults("arxiv", "fresh", `["a"]`, 24))
	require.NoError(t, store.CacheResults("arxiv", "stale", `["b"]`, 24))
	_, err := store.DB().Exec(
		`UPDATE search_cache SET expires_at = ? WHERE query = 'stale'`,
		time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	removed, err := store.ClearExpiredCache()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = store.CachedResults("arxiv", "fresh")
	assert.NoError(t, err, "sweep must not touch unexpired entries")
}
