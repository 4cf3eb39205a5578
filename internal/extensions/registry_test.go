package extensions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/knowdock/internal/db"
)

// fakeExtension is a scriptable in-memory extension for registry tests.
type fakeExtension struct {
	name        string
	resources   []db.Resource
	searchErr   error
	searchCalls int
}

func (f *fakeExtension) Info() Info {
	return Info{Name: f.name, Version: "0.0.1", Author: "test", Description: "test extension"}
}

func (f *fakeExtension) Search(_ context.Context, _ string, limit int) ([]db.Resource, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.resources) > limit {
		return f.resources[:limit], nil
	}
	return f.resources, nil
}

func (f *fakeExtension) Trending(ctx context.Context, limit int) ([]db.Resource, error) {
	return f.Search(ctx, "", limit)
}

func (f *fakeExtension) Categories() []string {
	return []string{"Testing"}
}

func fakeResources(prefix string, n int) []db.Resource {
	out := make([]db.Resource, n)
	for i := range out {
		out[i] = db.Resource{
			ID:    fmt.Sprintf("%s-%d", prefix, i),
			Title: fmt.Sprintf("%s result %d", prefix, i),
			URL:   fmt.Sprintf("https://example.com/%s/%d", prefix, i),
		}
	}
	return out
}

func newTestRegistry(t *testing.T) (*Registry, *db.Store) {
	t.Helper()
	store, err := db.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewRegistry(store), store
}

func TestSearchAllMergesAcrossExtensions(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Register(&fakeExtension{name: "alpha", resources: fakeResources("alpha", 3)}))
	require.NoError(t, reg.Register(&fakeExtension{name: "beta", resources: fakeResources("beta", 3)}))

	results := reg.SearchAll(context.Background(), "anything", 10)

	require.Len(t, results, 6)
	// Merge order follows registration order.
	assert.Equal(t, "alpha", results[0].Extension)
	assert.Equal(t, "beta", results[len(results)-1].Extension)
}

func TestSearchAllOneFailingExtensionDoesNotAbort(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Register(&fakeExtension{name: "broken", searchErr: errors.New("upstream down")}))
	require.NoError(t, reg.Register(&fakeExtension{name: "healthy", resources: fakeResources("healthy", 2)}))

	results := reg.SearchAll(context.Background(), "anything", 10)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "healthy", r.Extension)
	}
}

func TestSearchAllSkipsDisabledExtensions(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, reg.Register(&fakeExtension{name: "enabled", resources: fakeResources("enabled", 2)}))
	require.NoError(t, reg.Register(&fakeExtension{name: "disabled", resources: fakeResources("disabled", 2)}))

	require.NoError(t, store.DisableExtension("disabled"))

	results := reg.SearchAll(context.Background(), "anything", 10)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "enabled", r.Extension)
	}
}

func TestSearchAllRespectsLimit(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Register(&fakeExtension{name: "alpha", resources: fakeResources("alpha", 10)}))
	require.NoError(t, reg.Register(&fakeExtension{name: "beta", resources: fakeResources("beta", 10)}))

	results := reg.SearchAll(context.Background(), "anything", 8)

	// Each extension is asked for limit/n and the merge is truncated.
	assert.LessOrEqual(t, len(results), 8)
}

func TestSearchServesFromCacheOnRepeat(t *testing.T) {
	reg, _ := newTestRegistry(t)
	fake := &fakeExtension{name: "alpha", resources: fakeResources("alpha", 2)}
	require.NoError(t, reg.Register(fake))

	first, err := reg.Search(context.Background(), "alpha", "same query", 10)
	require.NoError(t, err)
	second, err := reg.Search(context.Background(), "alpha", "same query", 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.searchCalls, "the repeat query must be served from the cache")
}

func TestSearchCacheKeyIsCaseSensitive(t *testing.T) {
	reg, _ := newTestRegistry(t)
	fake := &fakeExtension{name: "alpha", resources: fakeResources("alpha", 1)}
	require.NoError(t, reg.Register(fake))

	_, err := reg.Search(context.Background(), "alpha", "Query", 10)
	require.NoError(t, err)
	_, err = reg.Search(context.Background(), "alpha", "query", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.searchCalls, "differently-cased queries are distinct cache entries")
}

func TestSearchBypassesCacheWhenDisabled(t *testing.T) {
	reg, store := newTestRegistry(t)
	fake := &fakeExtension{name: "alpha", resources: fakeResources("alpha", 1)}
	require.NoError(t, reg.Register(fake))
	require.NoError(t, store.SetSyncSettings("alpha", false, 100, 24))

	_, err := reg.Search(context.Background(), "alpha", "q", 10)
	require.NoError(t, err)
	_, err = reg.Search(context.Background(), "alpha", "q", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.searchCalls)
}

func TestSearchStampsSyncTime(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, reg.Register(&fakeExtension{name: "alpha", resources: fakeResources("alpha", 1)}))

	assert.True(t, store.NeedsResync("alpha"))

	_, err := reg.Search(context.Background(), "alpha", "q", 10)
	require.NoError(t, err)

	assert.False(t, store.NeedsResync("alpha"))
}

func TestSearchUnknownExtension(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Search(context.Background(), "ghost", "q", 10)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDownloadTargetCapability(t *testing.T) {
	arxiv := NewArxiv()

	url, filename, err := arxiv.DownloadTarget("1706.03762")
	require.NoError(t, err)
	assert.Equal(t, "https://arxiv.org/pdf/1706.03762.pdf", url)
	assert.Equal(t, "1706.03762.pdf", filename)

	// The capability is optional and discovered by interface assertion.
	var ext Extension = arxiv
	_, ok := ext.(Downloader)
	assert.True(t, ok)

	ext = NewWikipedia()
	_, ok = ext.(Downloader)
	assert.False(t, ok)
}
