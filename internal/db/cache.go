package db

import (
	"database/sql"
	"errors"
	"time"
)

// DefaultTTLHours is how long cached search results stay fresh unless the
// extension's settings say otherwise.
const DefaultTTLHours = 24

// CacheResults upserts the result payload for an (extension, query) pair.
// The key is the literal query text: differently-cased or -spaced queries are
// distinct entries. A repeat write replaces the prior row.
func (s *Store) CacheResults(extension, query, resultsJSON string, ttlHours int) error {
	if ttlHours <= 0 {
		ttlHours = DefaultTTLHours
	}
	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(ttlHours) * time.Hour)

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO search_cache (extension_name, query, results_json, cached_date, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		extension, query, resultsJSON, now, expiresAt)
	return err
}

// CachedResults returns the payload for an (extension, query) pair, or
// ErrNotFound when there is no entry or the entry has expired. Exactly at
// expires_at counts as expired; stale data is never returned.
func (s *Store) CachedResults(extension, query string) (string, error) {
	var resultsJSON string
	var expiresAt time.Time
	err := s.db.QueryRow(`
		SELECT results_json, expires_at FROM search_cache
		WHERE extension_name = ? AND query = ?`,
		extension, query).Scan(&resultsJSON, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !expiresAt.After(time.Now()) {
		return "", ErrNotFound
	}
	return resultsJSON, nil
}

// ClearExpiredCache sweeps rows past their expiry and returns the count
// removed. Not required for correctness (CachedResults already filters);
// it only bounds store growth.
func (s *Store) ClearExpiredCache() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM search_cache WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
