package realtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 32

// Subscriber is one registered event receiver. Its channel is closed by
// Unsubscribe or by Hub.Close.
type Subscriber struct {
	events chan Event
}

func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub fans published events out to all current subscribers. There is no
// queueing or replay: a subscriber not registered at publish time never sees
// the event. The hub is owned by the server process; construct it at startup
// and Close it at shutdown.
type Hub struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	closed      bool
	dropped     atomic.Uint64
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[*Subscriber]struct{}),
	}
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{events: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(s.events)
		return s
	}
	h.subscribers[s] = struct{}{}
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[s]; !ok {
		return
	}
	delete(h.subscribers, s)
	close(s.events)
}

// Publish delivers ev to every subscriber without blocking: a subscriber
// whose buffer is full misses the event. Holding the read lock for the
// duration of the sends keeps Unsubscribe from closing a channel mid
// fan-out.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for s := range h.subscribers {
		select {
		case s.events <- ev:
		default:
			h.dropped.Add(1)
			h.logger.Warn("dropped event for slow subscriber", "event", ev.Name())
		}
	}
}

// SubscriberCount reports the number of currently registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped reports how many events have been discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subscribers {
		close(s.events)
	}
	h.subscribers = make(map[*Subscriber]struct{})
}
