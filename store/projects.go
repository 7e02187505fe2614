package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Project struct {
	ID                  int64
	Title               string
	PublishedDate       *time.Time
	Description         *string
	CertificationNumber *string
}

const projectSelectCols = `id, title, published_date, description, certification_number`

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	var p Project
	var published any
	var description, certification sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &published, &description, &certification); err != nil {
		return nil, err
	}
	p.PublishedDate = parseTimePtr(published)
	if description.Valid {
		p.Description = &description.String
	}
	if certification.Valid {
		p.CertificationNumber = &certification.String
	}
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (db *DB) CreateProject(p *Project) error {
	id, err := db.insertID(`INSERT INTO projects (title, published_date, description, certification_number) VALUES (?, ?, ?, ?)`,
		p.Title, db.datePtrArg(p.PublishedDate), p.Description, p.CertificationNumber)
	if err != nil {
		return classify("create project", err)
	}
	p.ID = id
	return nil
}

func (db *DB) UpdateProject(p *Project) error {
	return classify("update project", db.execOne(`UPDATE projects SET title=?, published_date=?, description=?, certification_number=? WHERE id=?`,
		p.Title, db.datePtrArg(p.PublishedDate), p.Description, p.CertificationNumber, p.ID))
}

// DeleteProject cascades to drawings, comments and manufacture offers.
func (db *DB) DeleteProject(id int64) error {
	return classify("delete project", db.execOne(`DELETE FROM projects WHERE id=?`, id))
}

func (db *DB) GetProject(id int64) (*Project, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM projects WHERE id=?`, projectSelectCols)), id)
	p, err := scanProject(row)
	if err != nil {
		return nil, classify("get project", err)
	}
	return p, nil
}

func (db *DB) ListProjects() ([]*Project, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM projects ORDER BY id`, projectSelectCols))
	if err != nil {
		return nil, classify("list projects", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}
