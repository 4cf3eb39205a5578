package db

import "database/sql"

// DefaultTagColor matches the schema default.
const DefaultTagColor = "#3b82f6"

// CreateTag inserts a tag and returns its id. Creation is idempotent by
// name: on a duplicate the existing tag's id is returned instead of an
// error (the existing color wins).
func (s *Store) CreateTag(name, color string) (int64, error) {
	if color == "" {
		color = DefaultTagColor
	}
	res, err := s.db.Exec(`INSERT INTO tags (name, color) VALUES (?, ?)`, name, color)
	if err == nil {
		return res.LastInsertId()
	}
	if !isConstraintErr(err) {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Tags lists all tags ordered by name.
func (s *Store) Tags() ([]Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, color FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// AddTagToResource tags a resource URL, creating the tag if needed.
// Re-tagging an already-tagged resource is success.
func (s *Store) AddTagToResource(resourceURL, tagName, color string) error {
	tagID, err := s.CreateTag(tagName, color)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO resource_tags (tag_id, resource_url) VALUES (?, ?)`,
		tagID, resourceURL)
	return err
}

// TagsForResource lists the tags attached to a resource URL.
func (s *Store) TagsForResource(resourceURL string) ([]Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN resource_tags rt ON t.id = rt.tag_id
		WHERE rt.resource_url = ?
		ORDER BY t.name`, resourceURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// RemoveTagFromResource detaches one tag from one resource; the tag itself
// stays.
func (s *Store) RemoveTagFromResource(resourceURL string, tagID int64) error {
	_, err := s.db.Exec(`DELETE FROM resource_tags WHERE tag_id = ? AND resource_url = ?`,
		tagID, resourceURL)
	return err
}

// DeleteTag removes a tag; its resource_tags rows go with it via the
// foreign-key cascade.
func (s *Store) DeleteTag(tagID int64) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = ?`, tagID)
	return err
}

func scanTags(rows *sql.Rows) ([]Tag, error) {
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
