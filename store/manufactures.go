package store

import (
	"database/sql"
	"fmt"
)

// Manufacture is a location's offer to fabricate a project. It is keyed by
// the (location, project) pair; ID is the derived "{location}-{project}" string.
type Manufacture struct {
	ID            string
	LocationID    int64
	ProjectID     int64
	PriceEstimate float64
	CurrencyID    int64
}

// ManufactureKey derives the string id stored alongside the composite key.
func ManufactureKey(locationID, projectID int64) string {
	return fmt.Sprintf("%d-%d", locationID, projectID)
}

const manufactureSelectCols = `id, location_id, project_id, price_estimate, currency_id`

func scanManufacture(row interface{ Scan(...any) error }) (*Manufacture, error) {
	var m Manufacture
	if err := row.Scan(&m.ID, &m.LocationID, &m.ProjectID, &m.PriceEstimate, &m.CurrencyID); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanManufactures(rows *sql.Rows) ([]*Manufacture, error) {
	var manufactures []*Manufacture
	for rows.Next() {
		m, err := scanManufacture(rows)
		if err != nil {
			return nil, err
		}
		manufactures = append(manufactures, m)
	}
	return manufactures, rows.Err()
}

func (db *DB) CreateManufacture(m *Manufacture) error {
	m.ID = ManufactureKey(m.LocationID, m.ProjectID)
	_, err := db.Exec(db.Q(`INSERT INTO manufactures (location_id, project_id, id, price_estimate, currency_id) VALUES (?, ?, ?, ?, ?)`),
		m.LocationID, m.ProjectID, m.ID, m.PriceEstimate, m.CurrencyID)
	return classify("create manufacture", err)
}

// UpdateManufacture rewrites the offer currently stored under
// (locationID, projectID). The derived id follows the new pair in m.
func (db *DB) UpdateManufacture(locationID, projectID int64, m *Manufacture) error {
	m.ID = ManufactureKey(m.LocationID, m.ProjectID)
	return classify("update manufacture", db.execOne(`UPDATE manufactures SET location_id=?, project_id=?, id=?, price_estimate=?, currency_id=? WHERE location_id=? AND project_id=?`,
		m.LocationID, m.ProjectID, m.ID, m.PriceEstimate, m.CurrencyID, locationID, projectID))
}

func (db *DB) DeleteManufacture(locationID, projectID int64) error {
	return classify("delete manufacture", db.execOne(`DELETE FROM manufactures WHERE location_id=? AND project_id=?`, locationID, projectID))
}

func (db *DB) GetManufacture(locationID, projectID int64) (*Manufacture, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM manufactures WHERE location_id=? AND project_id=?`, manufactureSelectCols)), locationID, projectID)
	m, err := scanManufacture(row)
	if err != nil {
		return nil, classify("get manufacture", err)
	}
	return m, nil
}

func (db *DB) ListManufactures() ([]*Manufacture, error) {
	return db.queryManufactures("list manufactures",
		fmt.Sprintf(`SELECT %s FROM manufactures ORDER BY location_id, project_id`, manufactureSelectCols))
}

// ListManufacturesByProject lists the suppliers offering to build a project.
func (db *DB) ListManufacturesByProject(projectID int64) ([]*Manufacture, error) {
	return db.queryManufactures("list manufactures by project",
		fmt.Sprintf(`SELECT %s FROM manufactures WHERE project_id=? ORDER BY location_id`, manufactureSelectCols), projectID)
}

// ListManufacturesByLocation lists a location's fabrication catalogue.
func (db *DB) ListManufacturesByLocation(locationID int64) ([]*Manufacture, error) {
	return db.queryManufactures("list manufactures by location",
		fmt.Sprintf(`SELECT %s FROM manufactures WHERE location_id=? ORDER BY project_id`, manufactureSelectCols), locationID)
}

func (db *DB) queryManufactures(op, query string, args ...any) ([]*Manufacture, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	return scanManufactures(rows)
}
