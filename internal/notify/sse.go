package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const keepAliveInterval = 25 * time.Second

// SSEHandler streams hub events to a browser as Server-Sent Events.
type SSEHandler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewSSEHandler constructs the handler for GET /events.
func NewSSEHandler(hub *Hub, logger *slog.Logger) *SSEHandler {
	return &SSEHandler{hub: hub, logger: logger}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event := <-events:
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				h.logger.Warn("encode sse payload", slog.String("event", event.Name), slog.Any("error", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, payload)
			flusher.Flush()
		}
	}
}
