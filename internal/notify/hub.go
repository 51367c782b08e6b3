package notify

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Hub fans events out to in-process subscribers. Sends are non-blocking: a
// subscriber that cannot keep up loses events rather than stalling the
// publisher.
type Hub struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[chan Event]struct{}),
	}
}

// Subscribe registers an observer. The returned cancel func must be called
// when the observer disconnects.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber. Implements
// Notifier.
func (h *Hub) Publish(_ context.Context, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			if h.logger != nil {
				h.logger.Warn("dropping event for slow subscriber", slog.String("event", event.Name))
			}
		}
	}
}

// SubscriberCount reports the number of connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
