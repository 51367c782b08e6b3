package notify

import "context"

// Notifier publishes mutation events to all currently connected observers.
// Implementations must not block the caller and must swallow delivery
// failures; there is no queuing for disconnected observers.
type Notifier interface {
	Publish(ctx context.Context, event Event)
}

// Discard is a Notifier that drops every event. Used in tests and when the
// real-time layer is disabled.
type Discard struct{}

// Publish implements Notifier.
func (Discard) Publish(context.Context, Event) {}

type counted struct {
	next  Notifier
	count func(name string)
}

// WithCounter wraps a Notifier so every published event is counted, for the
// observability layer.
func WithCounter(next Notifier, count func(name string)) Notifier {
	if count == nil {
		return next
	}
	return counted{next: next, count: count}
}

func (c counted) Publish(ctx context.Context, event Event) {
	c.count(event.Name)
	c.next.Publish(ctx, event)
}
