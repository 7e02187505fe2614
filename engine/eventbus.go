package engine

import (
	"sync"
	"time"
)

type EventType int

type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// EventBus delivers events synchronously, in subscription order, on the
// goroutine that emits them. Handlers are keyed by event type.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]func(Event)
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventType][]func(Event))}
}

// SubscribeTypes registers fn for each of the given types.
func (eb *EventBus) SubscribeTypes(fn func(Event), types ...EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for _, t := range types {
		eb.handlers[t] = append(eb.handlers[t], fn)
	}
}

// SubscribeChanges registers fn for committed catalogue mutations.
func (eb *EventBus) SubscribeChanges(fn func(EntityChangedEvent)) {
	eb.SubscribeTypes(func(evt Event) {
		if ev, ok := evt.Payload.(EntityChangedEvent); ok {
			fn(ev)
		}
	}, EventEntityChanged)
}

// SubscribeConnection registers fn for broker connect and disconnect events.
func (eb *EventBus) SubscribeConnection(fn func(connected bool, ev ConnectionEvent)) {
	eb.SubscribeTypes(func(evt Event) {
		ev, _ := evt.Payload.(ConnectionEvent)
		fn(evt.Type == EventMessagingConnected, ev)
	}, EventMessagingConnected, EventMessagingDisconnected)
}

func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	eb.mu.RLock()
	fns := append(([]func(Event))(nil), eb.handlers[evt.Type]...)
	eb.mu.RUnlock()

	for _, fn := range fns {
		fn(evt)
	}
}
