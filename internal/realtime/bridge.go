package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// Reconnection policy: fixed delay doubling up to a ceiling, capped attempt
// count. After the attempts are exhausted the bridge stays disconnected and
// the caller must Connect again (no automatic gap-fill either way; callers
// re-list to catch up).
const (
	reconnectDelay    = time.Second
	reconnectDelayMax = 5 * time.Second
	reconnectAttempts = 5
)

// Bridge is the client side of the realtime channel: a long-lived websocket
// connection that dispatches decoded events to handlers registered per event
// name. It never replays history; seed initial state with a list call before
// connecting.
type Bridge struct {
	url    string
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	conn     *websocket.Conn
	closed   bool

	// closing interrupts a reconnect backoff in progress; done signals the
	// read loop has exited.
	closing chan struct{}
	done    chan struct{}
}

func NewBridge(url string, logger *slog.Logger) *Bridge {
	return &Bridge{
		url:      url,
		logger:   logger,
		handlers: make(map[string][]func(json.RawMessage)),
	}
}

// On registers fn for the named event. Handlers run on the bridge's single
// read loop, one at a time; they must not block.
func (b *Bridge) On(event string, fn func(json.RawMessage)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Connect dials the server and starts the read loop. It returns an error
// only if the initial dial fails; transport drops after that are retried in
// the background per the reconnection policy.
func (b *Bridge) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.conn = conn
	b.closed = false
	b.closing = make(chan struct{})
	b.done = make(chan struct{})
	b.mu.Unlock()

	go b.run(ctx, conn)
	return nil
}

func (b *Bridge) run(ctx context.Context, conn *websocket.Conn) {
	defer close(b.done)

	for {
		b.readLoop(conn)

		b.mu.Lock()
		closed := b.closed
		b.mu.Unlock()
		if closed {
			return
		}

		conn = b.reconnect(ctx)
		if conn == nil {
			return
		}
	}
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			b.logger.Info("realtime connection lost", "error", err)
			return
		}
		b.dispatch(msg)
	}
}

func (b *Bridge) reconnect(ctx context.Context) *websocket.Conn {
	b.mu.Lock()
	closing := b.closing
	b.mu.Unlock()

	delay := reconnectDelay
	for attempt := 1; attempt <= reconnectAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil
		case <-closing:
			return nil
		case <-time.After(delay):
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
		if err == nil {
			b.logger.Info("realtime reconnected", "attempt", attempt)
			b.mu.Lock()
			// Close may have raced the dial; a connection established after
			// that must not be handed to the read loop.
			if b.closed {
				b.mu.Unlock()
				conn.Close()
				return nil
			}
			b.conn = conn
			b.mu.Unlock()
			return conn
		}
		b.logger.Warn("realtime reconnect failed", "attempt", attempt, "error", err)

		delay *= 2
		if delay > reconnectDelayMax {
			delay = reconnectDelayMax
		}
	}
	b.logger.Error("realtime reconnect attempts exhausted")
	return nil
}

func (b *Bridge) dispatch(msg []byte) {
	var ev struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		b.logger.Warn("failed to decode realtime event", "error", err)
		return
	}

	b.mu.Lock()
	fns := make([]func(json.RawMessage), len(b.handlers[ev.Event]))
	copy(fns, b.handlers[ev.Event])
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev.Data)
	}
}

// Close tears the connection down, interrupts any reconnect in progress,
// and waits for the read loop to exit.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		if b.closing != nil {
			close(b.closing)
		}
	}
	conn := b.conn
	done := b.done
	b.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	if done != nil {
		<-done
	}
	return err
}
