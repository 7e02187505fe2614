package store

import (
	"database/sql"
	"time"
)

type AuditEntry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityKey  string    `json:"entity_key"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`
}

const auditSelectCols = `id, entity_type, entity_key, action, old_value, new_value, actor, created_at`

func (db *DB) AppendAudit(entityType, entityKey, action, oldValue, newValue, actor string) error {
	_, err := db.Exec(db.Q(`INSERT INTO audit_log (entity_type, entity_key, action, old_value, new_value, actor, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		entityType, entityKey, action, oldValue, newValue, actor, db.dialect.TimeArg(time.Now()))
	return classify("append audit", err)
}

func (db *DB) ListAuditLog(limit int) ([]*AuditEntry, error) {
	rows, err := db.Query(db.Q(`SELECT `+auditSelectCols+` FROM audit_log ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, classify("list audit log", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func (db *DB) ListEntityAudit(entityType, entityKey string) ([]*AuditEntry, error) {
	rows, err := db.Query(db.Q(`SELECT `+auditSelectCols+` FROM audit_log WHERE entity_type=? AND entity_key=? ORDER BY id DESC`), entityType, entityKey)
	if err != nil {
		return nil, classify("list entity audit", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func scanAuditEntries(rows *sql.Rows) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityKey, &e.Action, &e.OldValue, &e.NewValue, &e.Actor, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
