package store

import (
	"database/sql"
	"fmt"
)

type User struct {
	ID           int64
	Username     string
	EmailAddress string
	Position     *string
	PasswordHash string
	IsAdmin      bool
	LocationID   int64
}

const userSelectCols = `id, username, email_address, position, password, is_admin, location_id`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var position sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.EmailAddress, &position, &u.PasswordHash, &u.IsAdmin, &u.LocationID); err != nil {
		return nil, err
	}
	if position.Valid {
		u.Position = &position.String
	}
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) CreateUser(u *User) error {
	id, err := db.insertID(`INSERT INTO users (username, email_address, position, password, is_admin, location_id) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.EmailAddress, u.Position, u.PasswordHash, u.IsAdmin, u.LocationID)
	if err != nil {
		return classify("create user", err)
	}
	u.ID = id
	return nil
}

// UpdateUserInfo writes the self-service fields. Username and admin flag are
// never touched here.
func (db *DB) UpdateUserInfo(u *User) error {
	return classify("update user", db.execOne(`UPDATE users SET email_address=?, position=?, password=?, location_id=? WHERE id=?`,
		u.EmailAddress, u.Position, u.PasswordHash, u.LocationID, u.ID))
}

func (db *DB) SetUserAdmin(id int64, isAdmin bool) error {
	return classify("set user admin", db.execOne(`UPDATE users SET is_admin=? WHERE id=?`, isAdmin, id))
}

func (db *DB) DeleteUser(id int64) error {
	return classify("delete user", db.execOne(`DELETE FROM users WHERE id=?`, id))
}

func (db *DB) GetUser(id int64) (*User, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM users WHERE id=?`, userSelectCols)), id)
	u, err := scanUser(row)
	if err != nil {
		return nil, classify("get user", err)
	}
	return u, nil
}

func (db *DB) GetUserByUsername(username string) (*User, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM users WHERE username=?`, userSelectCols)), username)
	u, err := scanUser(row)
	if err != nil {
		return nil, classify("get user by username", err)
	}
	return u, nil
}

func (db *DB) ListUsers() ([]*User, error) {
	return db.queryUsers("list users", fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userSelectCols))
}

func (db *DB) ListUsersByLocation(locationID int64) ([]*User, error) {
	return db.queryUsers("list users by location",
		fmt.Sprintf(`SELECT %s FROM users WHERE location_id=? ORDER BY id`, userSelectCols), locationID)
}

func (db *DB) queryUsers(op, query string, args ...any) ([]*User, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	return scanUsers(rows)
}
