package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fabcatalogue/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	dialect Dialect
}

// tables in dependency order; Drop walks it backwards.
var tables = []string{
	"countries",
	"currencies",
	"location_types",
	"locations",
	"users",
	"projects",
	"drawings",
	"comments",
	"manufactures",
	"drawing_files",
	"outbox",
	"audit_log",
}

func Open(cfg *config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(cfg.SQLite.Path)
	case "postgres":
		return OpenPostgresDSN(postgresDSN(&cfg.Postgres))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func openSQLite(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := &DB{DB: sqlDB, dialect: sqliteDialect{}}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func postgresDSN(cfg *config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)
}

// OpenPostgresDSN opens a postgres store from a ready connection string.
func OpenPostgresDSN(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db := &DB{DB: sqlDB, dialect: postgresDialect{}}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return db, nil
}

// Q rewrites ? placeholders for the open driver.
func (db *DB) Q(query string) string {
	return db.dialect.Rebind(query)
}

// Healthy reports whether the database answers within a second.
func (db *DB) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return db.PingContext(ctx) == nil
}

func (db *DB) migrate() error {
	_, err := db.Exec(db.dialect.Schema())
	return err
}

// Drop removes every catalogue table. Open recreates them.
func (db *DB) Drop() error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables[i])); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i], err)
		}
	}
	return nil
}

// Create runs the schema again; tables that already exist are left alone.
func (db *DB) Create() error {
	return db.migrate()
}

func (db *DB) timePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.dialect.TimeArg(*t)
}

func (db *DB) datePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.dialect.DateArg(*t)
}

// insertID runs an INSERT ... RETURNING id and returns the new key.
func (db *DB) insertID(query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRow(db.Q(query+` RETURNING id`), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execOne runs a write that must touch exactly one row.
func (db *DB) execOne(query string, args ...any) error {
	res, err := db.Exec(db.Q(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
