package store

import (
	"database/sql"
	"fmt"
)

type Location struct {
	ID               int64
	Name             string
	AdminPhoneNumber string
	CountryID        int64
	LocationTypeID   int64
}

const locationSelectCols = `id, name, admin_phone_number, country_id, location_type_id`

func scanLocation(row interface{ Scan(...any) error }) (*Location, error) {
	var l Location
	if err := row.Scan(&l.ID, &l.Name, &l.AdminPhoneNumber, &l.CountryID, &l.LocationTypeID); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanLocations(rows *sql.Rows) ([]*Location, error) {
	var locations []*Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (db *DB) CreateLocation(l *Location) error {
	id, err := db.insertID(`INSERT INTO locations (name, admin_phone_number, country_id, location_type_id) VALUES (?, ?, ?, ?)`,
		l.Name, l.AdminPhoneNumber, l.CountryID, l.LocationTypeID)
	if err != nil {
		return classify("create location", err)
	}
	l.ID = id
	return nil
}

func (db *DB) UpdateLocation(l *Location) error {
	return classify("update location", db.execOne(`UPDATE locations SET name=?, admin_phone_number=?, country_id=?, location_type_id=? WHERE id=?`,
		l.Name, l.AdminPhoneNumber, l.CountryID, l.LocationTypeID, l.ID))
}

// DeleteLocation cascades to the location's users (and their comments) and
// to its manufacture offers.
func (db *DB) DeleteLocation(id int64) error {
	return classify("delete location", db.execOne(`DELETE FROM locations WHERE id=?`, id))
}

func (db *DB) GetLocation(id int64) (*Location, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM locations WHERE id=?`, locationSelectCols)), id)
	l, err := scanLocation(row)
	if err != nil {
		return nil, classify("get location", err)
	}
	return l, nil
}

func (db *DB) ListLocations() ([]*Location, error) {
	return db.queryLocations("list locations", fmt.Sprintf(`SELECT %s FROM locations ORDER BY id`, locationSelectCols))
}

func (db *DB) ListLocationsByCountry(countryID int64) ([]*Location, error) {
	return db.queryLocations("list locations by country",
		fmt.Sprintf(`SELECT %s FROM locations WHERE country_id=? ORDER BY id`, locationSelectCols), countryID)
}

func (db *DB) ListLocationsByType(locationTypeID int64) ([]*Location, error) {
	return db.queryLocations("list locations by type",
		fmt.Sprintf(`SELECT %s FROM locations WHERE location_type_id=? ORDER BY id`, locationSelectCols), locationTypeID)
}

func (db *DB) queryLocations(op, query string, args ...any) ([]*Location, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	return scanLocations(rows)
}
