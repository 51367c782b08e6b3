package notify

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishFansOut(t *testing.T) {
	hub := NewHub(slog.Default())
	ctx := context.Background()

	first, cancelFirst := hub.Subscribe()
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	hub.Publish(ctx, Event{Name: EventProductAdded, Payload: "x"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, EventProductAdded, event.Name)
		default:
			t.Fatal("expected buffered event")
		}
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub(slog.Default())

	_, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	// Publishing with no subscribers is a no-op.
	hub.Publish(context.Background(), Event{Name: EventCartUpdated})
}

func TestHubSlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(slog.Default())
	ctx := context.Background()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overflow the buffer; Publish must never block.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(ctx, Event{Name: EventProductUpdated})
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestDiscardAndCounter(t *testing.T) {
	var counted []string
	notifier := WithCounter(Discard{}, func(name string) {
		counted = append(counted, name)
	})

	notifier.Publish(context.Background(), Event{Name: EventCartEmptied})
	notifier.Publish(context.Background(), Event{Name: EventProductDeleted})

	assert.Equal(t, []string{EventCartEmptied, EventProductDeleted}, counted)
}

func TestWithCounterNilFunc(t *testing.T) {
	hub := NewHub(slog.Default())
	assert.Equal(t, Notifier(hub), WithCounter(hub, nil))
}
