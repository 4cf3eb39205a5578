package db

import (
	"database/sql"
	"time"
)

// AddAnnotation appends a note or highlight to a resource. A resource can
// carry any number of annotations.
func (s *Store) AddAnnotation(resourceURL, note, highlight string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO annotations (resource_url, note_text, highlight_text)
		VALUES (?, ?, ?)`,
		resourceURL, note, highlight)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AnnotationsForResource lists a resource's annotations, newest first.
func (s *Store) AnnotationsForResource(resourceURL string) ([]Annotation, error) {
	rows, err := s.db.Query(`
		SELECT id, resource_url, note_text, highlight_text, created_date, updated_date
		FROM annotations WHERE resource_url = ?
		ORDER BY created_date DESC`, resourceURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []Annotation
	for rows.Next() {
		var a Annotation
		var note, highlight sql.NullString
		if err := rows.Scan(&a.ID, &a.URL, &note, &highlight, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Note = note.String
		a.Highlight = highlight.String
		annotations = append(annotations, a)
	}
	return annotations, rows.Err()
}

// UpdateAnnotation replaces the note text and bumps updated_date. The
// highlight text is immutable through this path.
func (s *Store) UpdateAnnotation(id int64, note string) error {
	_, err := s.db.Exec(`
		UPDATE annotations SET note_text = ?, updated_date = ? WHERE id = ?`,
		note, time.Now().UTC(), id)
	return err
}

func (s *Store) DeleteAnnotation(id int64) error {
	_, err := s.db.Exec(`DELETE FROM annotations WHERE id = ?`, id)
	return err
}
