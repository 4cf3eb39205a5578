package db

import (
	"database/sql"
	"errors"
)

// AddBookmark inserts a bookmark. Unlike most duplicate inserts in this
// store, bookmarking an already-bookmarked URL reports ErrDuplicate so the
// caller can tell the user; the existing row is never overwritten.
func (s *Store) AddBookmark(b *Bookmark) error {
	_, err := s.db.Exec(`
		INSERT INTO bookmarks (title, url, source, resource_type, cover_url, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Title, b.URL, b.Source, b.Type, b.CoverURL, b.Description)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	return err
}

// RemoveBookmark deletes a bookmark by URL. Removing a URL that was never
// bookmarked is a no-op.
func (s *Store) RemoveBookmark(url string) error {
	_, err := s.db.Exec(`DELETE FROM bookmarks WHERE url = ?`, url)
	return err
}

// IsBookmarked reports whether a URL has a bookmark row.
func (s *Store) IsBookmarked(url string) (bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM bookmarks WHERE url = ?`, url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Bookmarks lists all bookmarks, newest first. An empty source lists
// everything; otherwise only that source's bookmarks.
func (s *Store) Bookmarks(source string) ([]Bookmark, error) {
	query := `
		SELECT id, title, url, source, resource_type, cover_url, description, added_date
		FROM bookmarks`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY added_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

// SearchBookmarks matches title, description, or source against a substring.
func (s *Store) SearchBookmarks(query string) ([]Bookmark, error) {
	term := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, title, url, source, resource_type, cover_url, description, added_date
		FROM bookmarks
		WHERE title LIKE ? OR description LIKE ? OR source LIKE ?
		ORDER BY added_date DESC`,
		term, term, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookmarks(rows)
}

func (s *Store) BookmarkCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count, err
}

func scanBookmarks(rows *sql.Rows) ([]Bookmark, error) {
	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var source, rtype, cover, desc sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &source, &rtype, &cover, &desc, &b.AddedAt); err != nil {
			return nil, err
		}
		b.Source = source.String
		b.Type = rtype.String
		b.CoverURL = cover.String
		b.Description = desc.String
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
