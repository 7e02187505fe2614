package engine

const (
	EventEntityChanged EventType = iota + 1
	EventMessagingConnected
	EventMessagingDisconnected
)

// --- Event payloads ---

// EntityChangedEvent is emitted after a catalogue mutation has been committed.
type EntityChangedEvent struct {
	Entity string
	Key    string
	Action string // "created", "updated", "deleted", "promoted", "file_uploaded"
	Label  string
	Fields []string
	Actor  string
}

type ConnectionEvent struct {
	Detail string
}
