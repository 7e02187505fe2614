package messaging

import "time"

// Envelope wraps every message published to the events topic.
type Envelope struct {
	MsgType   string    `json:"msg_type"`
	MsgID     string    `json:"msg_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

const (
	MsgEntityCreated = "entity_created"
	MsgEntityUpdated = "entity_updated"
	MsgEntityDeleted = "entity_deleted"
)

// ChangeEvent describes one committed catalogue mutation.
type ChangeEvent struct {
	Entity string   `json:"entity"`
	Key    string   `json:"key"`
	Action string   `json:"action"` // created, updated, deleted
	Fields []string `json:"fields,omitempty"`
	Actor  string   `json:"actor"`
}

// MsgTypeForAction maps a change action onto its envelope type.
func MsgTypeForAction(action string) string {
	switch action {
	case "created":
		return MsgEntityCreated
	case "deleted":
		return MsgEntityDeleted
	default:
		return MsgEntityUpdated
	}
}
