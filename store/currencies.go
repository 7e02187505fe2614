package store

import (
	"database/sql"
	"fmt"
)

type Currency struct {
	ID           int64
	CurrencyAbbr string
}

const currencySelectCols = `id, currency_abbr`

func scanCurrency(row interface{ Scan(...any) error }) (*Currency, error) {
	var c Currency
	if err := row.Scan(&c.ID, &c.CurrencyAbbr); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCurrencies(rows *sql.Rows) ([]*Currency, error) {
	var currencies []*Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

func (db *DB) CreateCurrency(c *Currency) error {
	id, err := db.insertID(`INSERT INTO currencies (currency_abbr) VALUES (?)`, c.CurrencyAbbr)
	if err != nil {
		return classify("create currency", err)
	}
	c.ID = id
	return nil
}

func (db *DB) UpdateCurrency(c *Currency) error {
	return classify("update currency", db.execOne(`UPDATE currencies SET currency_abbr=? WHERE id=?`, c.CurrencyAbbr, c.ID))
}

// DeleteCurrency fails with an IntegrityError while any manufacture still
// prices in this currency.
func (db *DB) DeleteCurrency(id int64) error {
	return classify("delete currency", db.execOne(`DELETE FROM currencies WHERE id=?`, id))
}

func (db *DB) GetCurrency(id int64) (*Currency, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM currencies WHERE id=?`, currencySelectCols)), id)
	c, err := scanCurrency(row)
	if err != nil {
		return nil, classify("get currency", err)
	}
	return c, nil
}

func (db *DB) ListCurrencies() ([]*Currency, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM currencies ORDER BY id`, currencySelectCols))
	if err != nil {
		return nil, classify("list currencies", err)
	}
	defer rows.Close()
	return scanCurrencies(rows)
}
