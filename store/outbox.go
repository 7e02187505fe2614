package store

import (
	"time"
)

type OutboxMessage struct {
	ID        int64
	Topic     string
	Payload   []byte
	MsgType   string
	Key       string
	Retries   int
	CreatedAt time.Time
	SentAt    *time.Time
}

func (db *DB) EnqueueOutbox(topic string, payload []byte, msgType, key string) error {
	_, err := db.Exec(db.Q(`INSERT INTO outbox (topic, payload, msg_type, msg_key, created_at) VALUES (?, ?, ?, ?, ?)`),
		topic, payload, msgType, key, db.dialect.TimeArg(time.Now()))
	return classify("enqueue outbox", err)
}

// ListPendingOutbox returns unsent messages with fewer than maxRetries failed attempts.
func (db *DB) ListPendingOutbox(limit, maxRetries int) ([]*OutboxMessage, error) {
	rows, err := db.Query(db.Q(`SELECT id, topic, payload, msg_type, msg_key, retries, created_at FROM outbox WHERE sent_at IS NULL AND retries < ? ORDER BY id LIMIT ?`), maxRetries, limit)
	if err != nil {
		return nil, classify("list pending outbox", err)
	}
	defer rows.Close()
	var msgs []*OutboxMessage
	for rows.Next() {
		var m OutboxMessage
		var createdAt any
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload, &m.MsgType, &m.Key, &m.Retries, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func (db *DB) AckOutbox(id int64) error {
	_, err := db.Exec(db.Q(`UPDATE outbox SET sent_at=? WHERE id=?`), db.dialect.TimeArg(time.Now()), id)
	return classify("ack outbox", err)
}

func (db *DB) IncrementOutboxRetries(id int64) error {
	_, err := db.Exec(db.Q(`UPDATE outbox SET retries=retries+1 WHERE id=?`), id)
	return classify("increment outbox retries", err)
}

// PurgeSentOutbox deletes acknowledged messages older than the cutoff.
func (db *DB) PurgeSentOutbox(olderThan time.Duration) (int64, error) {
	res, err := db.Exec(db.Q(`DELETE FROM outbox WHERE sent_at IS NOT NULL AND sent_at < ?`), db.dialect.TimeArg(time.Now().Add(-olderThan)))
	if err != nil {
		return 0, classify("purge outbox", err)
	}
	return res.RowsAffected()
}
