package realtime_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalisz/keepsake/internal/realtime"
)

// wsTestServer accepts one websocket connection at a time and relays
// everything published on the hub.
func wsTestServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)
		for ev := range sub.Events() {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBridgeDispatchesByEventName(t *testing.T) {
	hub := realtime.NewHub(slog.Default())
	defer hub.Close()
	srv := wsTestServer(t, hub)

	bridge := realtime.NewBridge(wsURL(srv), slog.Default())
	created := make(chan json.RawMessage, 1)
	deleted := make(chan json.RawMessage, 1)
	bridge.On("note-created", func(data json.RawMessage) { created <- data })
	bridge.On("note-deleted", func(data json.RawMessage) { deleted <- data })

	require.NoError(t, bridge.Connect(context.Background()))
	defer bridge.Close()

	// The server accepts asynchronously; wait for the subscriber.
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	type note struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	hub.Publish(realtime.Created(realtime.KindNote, note{ID: 7, Title: "hi"}))
	hub.Publish(realtime.Deleted(realtime.KindNote, 7))

	select {
	case data := <-created:
		var got note
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, note{ID: 7, Title: "hi"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for note-created")
	}

	select {
	case data := <-deleted:
		assert.JSONEq(t, `{"id":7}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for note-deleted")
	}

	// Events with no registered handler are dropped silently.
	hub.Publish(realtime.Created(realtime.KindStory, note{ID: 1}))
	assert.Empty(t, created)
}

func TestBridgeCloseStopsDispatch(t *testing.T) {
	hub := realtime.NewHub(slog.Default())
	defer hub.Close()
	srv := wsTestServer(t, hub)

	bridge := realtime.NewBridge(wsURL(srv), slog.Default())
	got := make(chan json.RawMessage, 8)
	bridge.On("note-deleted", func(data json.RawMessage) { got <- data })

	require.NoError(t, bridge.Connect(context.Background()))
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, bridge.Close())

	hub.Publish(realtime.Deleted(realtime.KindNote, 1))
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, got)
}

func TestBridgeCloseDuringReconnect(t *testing.T) {
	hub := realtime.NewHub(slog.Default())
	srv := wsTestServer(t, hub)

	bridge := realtime.NewBridge(wsURL(srv), slog.Default())
	require.NoError(t, bridge.Connect(context.Background()))
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	// Drop the server so the bridge enters its reconnect backoff.
	hub.Close()
	srv.CloseClientConnections()
	srv.Close()

	closed := make(chan struct{})
	go func() {
		bridge.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return while the bridge was reconnecting")
	}
}

func TestBridgeConnectFailsFast(t *testing.T) {
	bridge := realtime.NewBridge("ws://127.0.0.1:1/ws", slog.Default())
	err := bridge.Connect(context.Background())
	assert.Error(t, err)
}
