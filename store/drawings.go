package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Drawing struct {
	ID              int64
	DrawingNumber   string
	PartDescription *string
	Version         *int64
	LastModified    time.Time
	ProjectID       int64
}

const drawingSelectCols = `id, drawing_number, part_description, version, last_modified, project_id`

func scanDrawing(row interface{ Scan(...any) error }) (*Drawing, error) {
	var d Drawing
	var description sql.NullString
	var version sql.NullInt64
	var lastModified any
	if err := row.Scan(&d.ID, &d.DrawingNumber, &description, &version, &lastModified, &d.ProjectID); err != nil {
		return nil, err
	}
	if description.Valid {
		d.PartDescription = &description.String
	}
	if version.Valid {
		d.Version = &version.Int64
	}
	d.LastModified = parseTime(lastModified)
	return &d, nil
}

func scanDrawings(rows *sql.Rows) ([]*Drawing, error) {
	var drawings []*Drawing
	for rows.Next() {
		d, err := scanDrawing(rows)
		if err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}
	return drawings, rows.Err()
}

func (db *DB) CreateDrawing(d *Drawing) error {
	if d.LastModified.IsZero() {
		d.LastModified = time.Now()
	}
	id, err := db.insertID(`INSERT INTO drawings (drawing_number, part_description, version, last_modified, project_id) VALUES (?, ?, ?, ?, ?)`,
		d.DrawingNumber, d.PartDescription, d.Version, db.dialect.TimeArg(d.LastModified), d.ProjectID)
	if err != nil {
		return classify("create drawing", err)
	}
	d.ID = id
	return nil
}

func (db *DB) UpdateDrawing(d *Drawing) error {
	return classify("update drawing", db.execOne(`UPDATE drawings SET drawing_number=?, part_description=?, version=?, last_modified=?, project_id=? WHERE id=?`,
		d.DrawingNumber, d.PartDescription, d.Version, db.dialect.TimeArg(d.LastModified), d.ProjectID, d.ID))
}

func (db *DB) DeleteDrawing(id int64) error {
	return classify("delete drawing", db.execOne(`DELETE FROM drawings WHERE id=?`, id))
}

func (db *DB) GetDrawing(id int64) (*Drawing, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM drawings WHERE id=?`, drawingSelectCols)), id)
	d, err := scanDrawing(row)
	if err != nil {
		return nil, classify("get drawing", err)
	}
	return d, nil
}

func (db *DB) ListDrawings() ([]*Drawing, error) {
	return db.queryDrawings("list drawings", fmt.Sprintf(`SELECT %s FROM drawings ORDER BY id`, drawingSelectCols))
}

func (db *DB) ListDrawingsByProject(projectID int64) ([]*Drawing, error) {
	return db.queryDrawings("list drawings by project",
		fmt.Sprintf(`SELECT %s FROM drawings WHERE project_id=? ORDER BY id`, drawingSelectCols), projectID)
}

func (db *DB) queryDrawings(op, query string, args ...any) ([]*Drawing, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	return scanDrawings(rows)
}
