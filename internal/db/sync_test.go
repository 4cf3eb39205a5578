package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsResyncLifecycle(t *testing.T) {
	store := newTestStore(t)

	// No settings row at all: stale.
	assert.True(t, store.NeedsResync("arxiv"))

	// Settings row with no last_sync: still stale.
	require.NoError(t, store.SetSyncSettings("arxiv", true, 100, 24))
	assert.True(t, store.NeedsResync("arxiv"))

	require.NoError(t, store.MarkSyncComplete("arxiv"))
	assert.False(t, store.NeedsResync("arxiv"))
}

func TestNeedsResyncAfterTTL(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetSyncSettings("arxiv", true, 100, 1))
	require.NoError(t, store.MarkSyncComplete("arxiv"))

	_, err := store.DB().Exec(
		`UPDATE extension_settings SET last_sync = ? WHERE extension_name = 'arxiv'`,
		time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)

	assert.True(t, store.NeedsResync("arxiv"))
}

func TestMarkSyncCompleteWithoutSettingsRow(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.MarkSyncComplete("wikipedia"))

	settings, err := store.SyncSettings("wikipedia")
	require.NoError(t, err)
	assert.False(t, settings.LastSync.IsZero())
	assert.Equal(t, 24, settings.TTLHours, "missing row is created with defaults")
}

func TestSetSyncSettingsReplaces(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetSyncSettings("doaj", true, 100, 24))
	require.NoError(t, store.SetSyncSettings("doaj", false, 50, 6))

	settings, err := store.SyncSettings("doaj")
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Equal(t, 50, settings.MaxResults)
	assert.Equal(t, 6, settings.TTLHours)
}
