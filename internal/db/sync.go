package db

import (
	"database/sql"
	"errors"
	"time"
)

// SetSyncSettings configures caching behavior for an extension, replacing any
// prior settings row.
func (s *Store) SetSyncSettings(extension string, cacheEnabled bool, maxResults, ttlHours int) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO extension_settings
		(extension_name, cache_enabled, cache_max_results, cache_ttl_hours)
		VALUES (?, ?, ?, ?)`,
		extension, cacheEnabled, maxResults, ttlHours)
	return err
}

// SyncSettings returns the settings row for an extension, or ErrNotFound.
func (s *Store) SyncSettings(extension string) (*SyncSettings, error) {
	var out SyncSettings
	var lastSync sql.NullTime
	err := s.db.QueryRow(`
		SELECT extension_name, cache_enabled, cache_max_results, cache_ttl_hours, last_sync
		FROM extension_settings WHERE extension_name = ?`,
		extension).Scan(&out.Extension, &out.Enabled, &out.MaxResults, &out.TTLHours, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.LastSync = nullableTime(lastSync)
	return &out, nil
}

// MarkSyncComplete stamps last_sync = now for an extension. A missing
// settings row is created with defaults first so the stamp always lands.
func (s *Store) MarkSyncComplete(extension string) error {
	_, err := s.db.Exec(`
		INSERT INTO extension_settings (extension_name, last_sync) VALUES (?, ?)
		ON CONFLICT(extension_name) DO UPDATE SET last_sync = excluded.last_sync`,
		extension, time.Now().UTC())
	return err
}

// NeedsResync reports whether the extension's cached data as a whole is due
// for a refresh: true when no settings row exists, when the extension has
// never synced, or when more than cache_ttl_hours have elapsed since the
// last sync. This is a coarser signal than per-query cache expiry.
func (s *Store) NeedsResync(extension string) bool {
	settings, err := s.SyncSettings(extension)
	if err != nil {
		return true
	}
	if settings.LastSync.IsZero() {
		return true
	}
	ttl := time.Duration(settings.TTLHours) * time.Hour
	return time.Since(settings.LastSync) > ttl
}
