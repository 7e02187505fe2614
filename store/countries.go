package store

import (
	"database/sql"
	"fmt"
)

type Country struct {
	ID      int64
	Country string
}

const countrySelectCols = `id, country`

func scanCountry(row interface{ Scan(...any) error }) (*Country, error) {
	var c Country
	if err := row.Scan(&c.ID, &c.Country); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCountries(rows *sql.Rows) ([]*Country, error) {
	var countries []*Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (db *DB) CreateCountry(c *Country) error {
	id, err := db.insertID(`INSERT INTO countries (country) VALUES (?)`, c.Country)
	if err != nil {
		return classify("create country", err)
	}
	c.ID = id
	return nil
}

func (db *DB) UpdateCountry(c *Country) error {
	return classify("update country", db.execOne(`UPDATE countries SET country=? WHERE id=?`, c.Country, c.ID))
}

// DeleteCountry removes the country and, through the schema, its locations.
func (db *DB) DeleteCountry(id int64) error {
	return classify("delete country", db.execOne(`DELETE FROM countries WHERE id=?`, id))
}

func (db *DB) GetCountry(id int64) (*Country, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM countries WHERE id=?`, countrySelectCols)), id)
	c, err := scanCountry(row)
	if err != nil {
		return nil, classify("get country", err)
	}
	return c, nil
}

func (db *DB) ListCountries() ([]*Country, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM countries ORDER BY id`, countrySelectCols))
	if err != nil {
		return nil, classify("list countries", err)
	}
	defer rows.Close()
	return scanCountries(rows)
}
