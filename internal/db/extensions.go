package db

// RegisterExtension records an extension, replacing any prior registration
// for the same name and (re-)enabling it.
func (s *Store) RegisterExtension(name, version, author, description string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO extensions (name, version, author, description, enabled)
		VALUES (?, ?, ?, ?, 1)`,
		name, version, author, description)
	return err
}

// Extensions lists all registered extensions.
func (s *Store) Extensions() ([]ExtensionInfo, error) {
	rows, err := s.db.Query(`
		SELECT name, version, author, description, enabled, installed_date
		FROM extensions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exts []ExtensionInfo
	for rows.Next() {
		var e ExtensionInfo
		if err := rows.Scan(&e.Name, &e.Version, &e.Author, &e.Description, &e.Enabled, &e.InstalledAt); err != nil {
			return nil, err
		}
		exts = append(exts, e)
	}
	return exts, rows.Err()
}

// ExtensionEnabled reports whether a registered extension participates in
// federated search and trending. Unregistered names count as enabled so an
// extension works before its first registration write lands.
func (s *Store) ExtensionEnabled(name string) bool {
	var enabled bool
	err := s.db.QueryRow(`SELECT enabled FROM extensions WHERE name = ?`, name).Scan(&enabled)
	if err != nil {
		return true
	}
	return enabled
}

func (s *Store) EnableExtension(name string) error {
	_, err := s.db.Exec(`UPDATE extensions SET enabled = 1 WHERE name = ?`, name)
	return err
}

func (s *Store) DisableExtension(name string) error {
	_, err := s.db.Exec(`UPDATE extensions SET enabled = 0 WHERE name = ?`, name)
	return err
}
