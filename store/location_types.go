package store

import (
	"database/sql"
	"fmt"
)

type LocationType struct {
	ID           int64
	LocationType string
}

const locationTypeSelectCols = `id, location_type`

func scanLocationType(row interface{ Scan(...any) error }) (*LocationType, error) {
	var lt LocationType
	if err := row.Scan(&lt.ID, &lt.LocationType); err != nil {
		return nil, err
	}
	return &lt, nil
}

func scanLocationTypes(rows *sql.Rows) ([]*LocationType, error) {
	var types []*LocationType
	for rows.Next() {
		lt, err := scanLocationType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

func (db *DB) CreateLocationType(lt *LocationType) error {
	id, err := db.insertID(`INSERT INTO location_types (location_type) VALUES (?)`, lt.LocationType)
	if err != nil {
		return classify("create location type", err)
	}
	lt.ID = id
	return nil
}

func (db *DB) UpdateLocationType(lt *LocationType) error {
	return classify("update location type", db.execOne(`UPDATE location_types SET location_type=? WHERE id=?`, lt.LocationType, lt.ID))
}

func (db *DB) DeleteLocationType(id int64) error {
	return classify("delete location type", db.execOne(`DELETE FROM location_types WHERE id=?`, id))
}

func (db *DB) GetLocationType(id int64) (*LocationType, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM location_types WHERE id=?`, locationTypeSelectCols)), id)
	lt, err := scanLocationType(row)
	if err != nil {
		return nil, classify("get location type", err)
	}
	return lt, nil
}

func (db *DB) ListLocationTypes() ([]*LocationType, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM location_types ORDER BY id`, locationTypeSelectCols))
	if err != nil {
		return nil, classify("list location types", err)
	}
	defer rows.Close()
	return scanLocationTypes(rows)
}
