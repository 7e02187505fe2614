package store

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Dialect covers what differs between the two drivers: placeholder syntax,
// the DDL and how time values are bound.
type Dialect interface {
	Rebind(query string) string
	Schema() string
	TimeArg(t time.Time) any
	DateArg(t time.Time) any
}

type sqliteDialect struct{}

func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) Schema() string             { return schemaSQLite }
func (sqliteDialect) TimeArg(t time.Time) any    { return t.UTC().Format(time.RFC3339Nano) }
func (sqliteDialect) DateArg(t time.Time) any    { return t.Format(dateLayout) }

type postgresDialect struct{}

func (postgresDialect) Rebind(query string) string { return Rebind(query) }
func (postgresDialect) Schema() string             { return schemaPostgres }
func (postgresDialect) TimeArg(t time.Time) any    { return t.UTC() }
func (postgresDialect) DateArg(t time.Time) any    { return t.Format(dateLayout) }

// parseTime converts a scanned timestamp value to time.Time.
// Handles both SQLite (returns string) and Postgres (returns time.Time).
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseTime(string(t))
	case string:
		if t == "" {
			return time.Time{}
		}
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02 15:04:05-07:00",
			"2006-01-02 15:04:05.999999-07:00",
			dateLayout,
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// parseTimePtr is like parseTime but returns nil for zero/missing timestamps.
func parseTimePtr(v any) *time.Time {
	t := parseTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func Rebind(query string) string {
	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
