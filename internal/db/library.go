package db

import (
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"time"
)

// AddToLibrary inserts a library entry with status unread. Adding a source_id
// that is already present is a no-op: existing progress is never overwritten.
func (s *Store) AddToLibrary(sourceID, title, author, extension string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO user_library (source_id, title, author, extension_name, status)
		VALUES (?, ?, ?, ?, ?)`,
		sourceID, title, author, extension, StatusUnread)
	return err
}

// UpdateProgress advances the per-item state machine:
//
//   - reading with progress > 0 sets status and progress, and stamps
//     date_started only on the first entry into reading (COALESCE keeps the
//     original stamp afterwards);
//   - completed forces progress to 100 and stamps date_completed, whatever
//     progress value was passed in;
//   - anything else sets status and progress verbatim (covers reverting to
//     unread).
func (s *Store) UpdateProgress(sourceID, status string, progress int) error {
	now := time.Now().UTC()
	var err error
	switch {
	case status == StatusReading && progress > 0:
		_, err = s.db.Exec(`
			UPDATE user_library
			SET status = ?, progress_percent = ?, date_started = COALESCE(date_started, ?)
			WHERE source_id = ?`,
			status, progress, now, sourceID)
	case status == StatusCompleted:
		_, err = s.db.Exec(`
			UPDATE user_library
			SET status = ?, progress_percent = 100, date_completed = ?
			WHERE source_id = ?`,
			status, now, sourceID)
	default:
		_, err = s.db.Exec(`
			UPDATE user_library
			SET status = ?, progress_percent = ?
			WHERE source_id = ?`,
			status, progress, sourceID)
	}
	return err
}

// Library lists the user's library, newest first, optionally filtered by
// status ("" lists everything).
func (s *Store) Library(status string) ([]LibraryItem, error) {
	query := `
		SELECT id, source_id, title, author, extension_name, status, progress_percent,
		       date_added, date_started, date_completed, notes
		FROM user_library`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY date_added DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LibraryItem
	for rows.Next() {
		var it LibraryItem
		var author, extension, notes sql.NullString
		var started, completed sql.NullTime
		if err := rows.Scan(&it.ID, &it.SourceID, &it.Title, &author, &extension,
			&it.Status, &it.Progress, &it.AddedAt, &started, &completed, &notes); err != nil {
			return nil, err
		}
		it.Author = author.String
		it.Extension = extension.String
		it.Notes = notes.String
		it.StartedAt = nullableTime(started)
		it.CompletedAt = nullableTime(completed)
		items = append(items, it)
	}
	return items, rows.Err()
}

// LibraryItemBySource returns the library entry for a source_id.
func (s *Store) LibraryItemBySource(sourceID string) (*LibraryItem, error) {
	var it LibraryItem
	var author, extension, notes sql.NullString
	var started, completed sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, source_id, title, author, extension_name, status, progress_percent,
		       date_added, date_started, date_completed, notes
		FROM user_library WHERE source_id = ?`, sourceID).
		Scan(&it.ID, &it.SourceID, &it.Title, &author, &extension,
			&it.Status, &it.Progress, &it.AddedAt, &started, &completed, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	it.Author = author.String
	it.Extension = extension.String
	it.Notes = notes.String
	it.StartedAt = nullableTime(started)
	it.CompletedAt = nullableTime(completed)
	return &it, nil
}

// SetLibraryNotes replaces the free-form notes on a library entry.
func (s *Store) SetLibraryNotes(sourceID, notes string) error {
	_, err := s.db.Exec(`UPDATE user_library SET notes = ? WHERE source_id = ?`, notes, sourceID)
	return err
}

// ReadingStats aggregates per-status counts and the average progress of
// items currently being read, rounded to one decimal. A dashboard must
// always render, so any query failure yields zeroed stats, not an error.
func (s *Store) ReadingStats() ReadingStats {
	var stats ReadingStats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'reading'), 0),
		       COALESCE(SUM(status = 'completed'), 0),
		       COALESCE(SUM(status = 'unread'), 0),
		       COALESCE(AVG(CASE WHEN status = 'reading' THEN progress_percent END), 0)
		FROM user_library`).
		Scan(&stats.Total, &stats.Reading, &stats.Completed, &stats.Unread, &stats.AvgProgress)
	if err != nil {
		slog.Warn("reading stats query failed", "error", err)
		return ReadingStats{}
	}
	stats.AvgProgress = math.Round(stats.AvgProgress*10) / 10
	return stats
}
