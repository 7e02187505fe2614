package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabcatalogue/config"
	"fabcatalogue/messaging"
	"fabcatalogue/store"
)

func testEngine(t *testing.T, messagingEnabled bool) *Engine {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Messaging.Enabled = messagingEnabled
	db, err := store.Open(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var client *messaging.Client
	if messagingEnabled {
		client = messaging.NewClient(&cfg.Messaging)
	}
	eng := New(Config{AppConfig: cfg, DB: db, MsgClient: client, LogFunc: t.Logf})
	eng.wireEventHandlers()
	return eng
}

func TestEventBusDispatchesByType(t *testing.T) {
	bus := NewEventBus()
	var changes []EntityChangedEvent
	var states []bool
	bus.SubscribeChanges(func(ev EntityChangedEvent) { changes = append(changes, ev) })
	bus.SubscribeConnection(func(connected bool, _ ConnectionEvent) { states = append(states, connected) })

	bus.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{Entity: "country", Key: "4"}})
	bus.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "up"}})
	bus.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "down"}})

	require.Len(t, changes, 1)
	assert.Equal(t, "country", changes[0].Entity)
	assert.Equal(t, []bool{true, false}, states)
}

func TestEventBusKeepsSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string
	bus.SubscribeTypes(func(Event) { order = append(order, "audit") }, EventEntityChanged)
	bus.SubscribeTypes(func(Event) { order = append(order, "feed") }, EventEntityChanged, EventMessagingConnected)

	bus.Emit(Event{Type: EventEntityChanged, Payload: EntityChangedEvent{}})
	assert.Equal(t, []string{"audit", "feed"}, order)

	bus.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{}})
	assert.Equal(t, []string{"audit", "feed", "feed"}, order)
}

func TestChangesAreAudited(t *testing.T) {
	eng := testEngine(t, false)

	eng.RecordCreated("country", "4", "Cyrodiil", "ccosades")
	eng.RecordUpdated("country", "4", []string{"country"}, "ccosades")
	eng.RecordDeleted("country", "4", "Cyrodiil", "ccosades")

	entries, err := eng.DB().ListEntityAudit("country", "4")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "deleted", entries[0].Action)
	assert.Equal(t, "Cyrodiil", entries[0].OldValue)
	assert.Equal(t, "updated", entries[1].Action)
	assert.Equal(t, "country", entries[1].NewValue)
	assert.Equal(t, "created", entries[2].Action)
	assert.Equal(t, "ccosades", entries[2].Actor)

	pending, err := eng.DB().ListPendingOutbox(50, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "outbox stays empty with messaging disabled")
}

func TestChangesAreEnqueuedWhenMessagingEnabled(t *testing.T) {
	eng := testEngine(t, true)

	eng.RecordAction("user", "7", "promoted", "tsadus", "lvarro")

	pending, err := eng.DB().ListPendingOutbox(50, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "fabcatalogue.events", pending[0].Topic)
	assert.Equal(t, "user:7", pending[0].Key)
	assert.Equal(t, messaging.MsgEntityUpdated, pending[0].MsgType)

	env, err := messaging.DecodeEnvelope(pending[0].Payload)
	require.NoError(t, err)
	ev := env.Payload.(messaging.ChangeEvent)
	assert.Equal(t, "promoted", ev.Action)
	assert.Equal(t, "lvarro", ev.Actor)
}

func TestStopSignalPersists(t *testing.T) {
	eng := testEngine(t, false)
	eng.Stop()
	eng.Stop()

	// a health loop busy reconnecting still sees the stop once it returns to select
	select {
	case <-eng.stopChan:
	default:
		t.Fatal("stop channel not closed")
	}
}
