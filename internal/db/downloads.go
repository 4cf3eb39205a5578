package db

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
)

// AddDownload records a completed download. file_path is unique: a file on
// disk can back only one download row. Failed downloads produce no row.
func (s *Store) AddDownload(sourceID, title, filePath, extension string, fileSize int64) error {
	_, err := s.db.Exec(`
		INSERT INTO downloads (source_id, title, file_path, extension_name, file_size, status)
		VALUES (?, ?, ?, ?, ?, 'completed')`,
		sourceID, title, filePath, extension, fileSize)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	return err
}

// Downloads lists all download records, newest first.
func (s *Store) Downloads() ([]Download, error) {
	rows, err := s.db.Query(`
		SELECT id, source_id, title, file_path, extension_name, downloaded_date, file_size, status
		FROM downloads ORDER BY downloaded_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDownloads(rows)
}

// AvailableOffline lists completed downloads. Rows are returned as recorded;
// use ResourceAvailableOffline or CleanupDeletedFiles to reconcile against
// the filesystem.
func (s *Store) AvailableOffline() ([]Download, error) {
	rows, err := s.db.Query(`
		SELECT id, source_id, title, file_path, extension_name, downloaded_date, file_size, status
		FROM downloads
		WHERE status = 'completed' AND file_path IS NOT NULL
		ORDER BY downloaded_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDownloads(rows)
}

// DownloadPath returns the recorded file path for a completed download of
// the given source, or ErrNotFound.
func (s *Store) DownloadPath(sourceID string) (string, error) {
	var path string
	err := s.db.QueryRow(`
		SELECT file_path FROM downloads WHERE source_id = ? AND status = 'completed'`,
		sourceID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return path, err
}

// IsDownloaded reports whether a completed download row exists for the
// source, without consulting the filesystem.
func (s *Store) IsDownloaded(sourceID string) bool {
	_, err := s.DownloadPath(sourceID)
	return err == nil
}

// ResourceAvailableOffline is true only when a completed download row exists
// AND its file is still on disk. A row whose file has gone missing is not
// offline-available, even though the database says completed.
func (s *Store) ResourceAvailableOffline(sourceID string) bool {
	path, err := s.DownloadPath(sourceID)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// CleanupDeletedFiles removes download rows whose file no longer exists and
// returns the count removed. This is the only mechanism permitted to delete
// rows for the missing-file condition, and it never runs on its own: a
// caller (maintenance command, settings view) must trigger it.
func (s *Store) CleanupDeletedFiles() (int, error) {
	rows, err := s.db.Query(`SELECT id, file_path FROM downloads WHERE status = 'completed'`)
	if err != nil {
		return 0, err
	}

	type rec struct {
		id   int64
		path string
	}
	var recs []rec
	for rows.Next() {
		var r rec
		if err := rows.Scan(&r.id, &r.path); err != nil {
			rows.Close()
			return 0, err
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	deleted := 0
	for _, r := range recs {
		if _, err := os.Stat(r.path); err == nil {
			continue
		}
		if _, err := s.db.Exec(`DELETE FROM downloads WHERE id = ?`, r.id); err != nil {
			slog.Warn("could not remove stale download row", "id", r.id, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// OfflineStorageSize sums recorded file sizes over completed downloads. This
// is a logical total; it can drift from real disk usage between
// reconciliation runs.
func (s *Store) OfflineStorageSize() (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(file_size) FROM downloads WHERE status = 'completed'`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func scanDownloads(rows *sql.Rows) ([]Download, error) {
	var downloads []Download
	for rows.Next() {
		var d Download
		var extension sql.NullString
		var size sql.NullInt64
		if err := rows.Scan(&d.ID, &d.SourceID, &d.Title, &d.FilePath, &extension,
			&d.DownloadedAt, &size, &d.Status); err != nil {
			return nil, err
		}
		d.Extension = extension.String
		d.FileSize = size.Int64
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}
