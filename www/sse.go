package www

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"fabcatalogue/engine"
	"fabcatalogue/logger"
)

type SSEEvent struct {
	Event string
	Data  string
}

// EventHub fans catalogue change events out to connected /events clients.
// Slow clients drop events rather than stall the bus.
type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan SSEEvent]struct{}
	broadcast chan SSEEvent
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[chan SSEEvent]struct{}),
		broadcast: make(chan SSEEvent, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.broadcast:
			h.send(evt)
		case <-keepalive.C:
			h.send(SSEEvent{Event: "keepalive", Data: "ping"})
		}
	}
}

func (h *EventHub) send(evt SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *EventHub) Broadcast(event, data string) {
	select {
	case h.broadcast <- SSEEvent{Event: event, Data: data}:
	default:
	}
}

func (h *EventHub) AddClient() chan SSEEvent {
	ch := make(chan SSEEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) RemoveClient(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type changeFrame struct {
	Entity string   `json:"entity"`
	Key    string   `json:"key"`
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	Fields []string `json:"fields,omitempty"`
	Actor  string   `json:"actor"`
}

// SetupEngineListeners wires engine events to SSE broadcasts.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.SubscribeChanges(func(ev engine.EntityChangedEvent) {
		data, err := json.Marshal(changeFrame{
			Entity: ev.Entity,
			Key:    ev.Key,
			Action: ev.Action,
			Label:  ev.Label,
			Fields: ev.Fields,
			Actor:  ev.Actor,
		})
		if err != nil {
			logger.Default().WithError(err).Warn("sse: encode change")
			return
		}
		h.Broadcast("entity-change", string(data))
	})

	eng.Events.SubscribeConnection(func(connected bool, _ engine.ConnectionEvent) {
		if connected {
			h.Broadcast("system-status", `{"messaging":"connected"}`)
			return
		}
		h.Broadcast("system-status", `{"messaging":"disconnected"}`)
	})
}

// SSEHandler serves the SSE endpoint.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.AddClient()
	defer h.RemoveClient(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				logger.FromContext(r.Context()).WithError(err).Debug("sse: write")
				return
			}
			flusher.Flush()
		}
	}
}
