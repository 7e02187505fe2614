package www

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabcatalogue/engine"
)

func newTestHub(t *testing.T) (*EventHub, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.Config{LogFunc: t.Logf})
	hub := NewEventHub()
	hub.SetupEngineListeners(eng)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub, eng
}

func TestEventHubFansOutChanges(t *testing.T) {
	hub, eng := newTestHub(t)

	a := hub.AddClient()
	b := hub.AddClient()
	assert.Equal(t, 2, hub.ClientCount())

	eng.RecordUpdated("project", "2", []string{"title"}, "cnaera")

	for _, ch := range []chan SSEEvent{a, b} {
		select {
		case evt := <-ch:
			assert.Equal(t, "entity-change", evt.Event)
			var frame changeFrame
			require.NoError(t, json.Unmarshal([]byte(evt.Data), &frame))
			assert.Equal(t, "project", frame.Entity)
			assert.Equal(t, "2", frame.Key)
			assert.Equal(t, "updated", frame.Action)
			assert.Equal(t, []string{"title"}, frame.Fields)
			assert.Equal(t, "cnaera", frame.Actor)
		case <-time.After(2 * time.Second):
			t.Fatal("no event delivered")
		}
	}

	hub.RemoveClient(a)
	hub.RemoveClient(b)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestEventHubMessagingStatus(t *testing.T) {
	hub, eng := newTestHub(t)
	ch := hub.AddClient()
	defer hub.RemoveClient(ch)

	eng.Events.Emit(engine.Event{Type: engine.EventMessagingDisconnected, Payload: engine.ConnectionEvent{Detail: "gone"}})

	select {
	case evt := <-ch:
		assert.Equal(t, "system-status", evt.Event)
		assert.Contains(t, evt.Data, "disconnected")
	case <-time.After(2 * time.Second):
		t.Fatal("no status event delivered")
	}
}

func TestSSEHandlerStreamsFrames(t *testing.T) {
	hub, eng := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(hub.SSEHandler))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	eng.RecordCreated("country", "4", "Kenya", "akatosh")

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "event: entity-change", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "data: "))
	assert.Contains(t, lines[1], `"label":"Kenya"`)
	assert.Contains(t, lines[1], `"action":"created"`)
}
