package db

import (
	"database/sql"
	"errors"
	"time"
)

// CreateProject inserts a project. Project names are unique; a duplicate
// name reports ErrDuplicate.
func (s *Store) CreateProject(name, description string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO projects (name, description) VALUES (?, ?)`, name, description)
	if isConstraintErr(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Projects lists all projects, most recently updated first.
func (s *Store) Projects() ([]Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, status, created_date, updated_date
		FROM projects ORDER BY updated_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Description = desc.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project; its project_resources rows go with it
// via the foreign-key cascade.
func (s *Store) DeleteProject(projectID int64) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID)
	return err
}

// AddResourceToProject links a resource URL into a project and bumps the
// project's updated_date, both inside one transaction. Adding a pair that is
// already present is success, not an error, and still bumps updated_date.
func (s *Store) AddResourceToProject(projectID int64, resourceURL, resourceTitle string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR IGNORE INTO project_resources (project_id, resource_url, resource_title)
		VALUES (?, ?, ?)`,
		projectID, resourceURL, resourceTitle)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE projects SET updated_date = ? WHERE id = ?`,
		time.Now().UTC(), projectID); err != nil {
		return err
	}
	return tx.Commit()
}

// ProjectResources lists a project's resources, newest first.
func (s *Store) ProjectResources(projectID int64) ([]ProjectResource, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, resource_url, resource_title, status, added_date
		FROM project_resources WHERE project_id = ?
		ORDER BY added_date DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []ProjectResource
	for rows.Next() {
		var r ProjectResource
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.URL, &r.Title, &r.Status, &r.AddedAt); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// UpdateProjectResourceStatus moves a project resource through
// to_read / reading / synthesized.
func (s *Store) UpdateProjectResourceStatus(resourceID int64, status string) error {
	_, err := s.db.Exec(`UPDATE project_resources SET status = ? WHERE id = ?`, status, resourceID)
	return err
}

// ProjectsForResource lists the projects containing a resource URL.
func (s *Store) ProjectsForResource(resourceURL string) ([]Project, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.description, p.status, p.created_date, p.updated_date
		FROM projects p
		JOIN project_resources pr ON p.id = pr.project_id
		WHERE pr.resource_url = ?`, resourceURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Description = desc.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectByName returns a project by its unique name, or ErrNotFound.
func (s *Store) ProjectByName(name string) (*Project, error) {
	var p Project
	var desc sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, description, status, created_date, updated_date
		FROM projects WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &desc, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	return &p, nil
}
