package notify

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEHandlerStreamsEvents(t *testing.T) {
	hub := NewHub(slog.Default())
	srv := httptest.NewServer(NewSSEHandler(hub, slog.Default()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Wait until the handler registered its hub subscription.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(ctx, Event{Name: EventProductAdded, Payload: map[string]string{"id": "7"}})

	reader := bufio.NewReader(resp.Body)
	eventLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)

	assert.Equal(t, "event: productAdded", strings.TrimSpace(eventLine))
	assert.Equal(t, `data: {"id":"7"}`, strings.TrimSpace(dataLine))
}

func TestSSEHandlerStopsOnDisconnect(t *testing.T) {
	hub := NewHub(slog.Default())
	srv := httptest.NewServer(NewSSEHandler(hub, slog.Default()))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
