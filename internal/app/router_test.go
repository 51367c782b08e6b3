package app

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/notify"
	"github.com/mitienda/mitienda/internal/observability"
	"github.com/mitienda/mitienda/internal/pages"
	"github.com/mitienda/mitienda/internal/view"
)

func newTestRouter(t *testing.T) (*httptest.Server, *catalog.Service, *notify.Hub) {
	t.Helper()
	logger := slog.Default()
	dataDir := t.TempDir()

	hub := notify.NewHub(logger)
	catalogService := catalog.NewService(catalog.NewFileRepository(dataDir), hub, nil, logger)
	cartService := cart.NewService(cart.NewFileRepository(dataDir), catalogService, hub, logger)

	engine, err := view.NewEngine()
	require.NoError(t, err)

	cfg := &Config{AppEnv: "development", AppRequestTimeout: 0}

	router := NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalog.NewHandler(logger, catalogService),
		CartHandler:    cart.NewHandler(logger, cartService),
		PagesHandler:   pages.NewHandler(logger, catalogService, cartService, engine),
		Events:         notify.NewSSEHandler(hub, logger),
		Metrics:        observability.NewMetrics(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, catalogService, hub
}

func TestRouterHealthz(t *testing.T) {
	srv, _, _ := newTestRouter(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouterMountsAPIAndPages(t *testing.T) {
	srv, catalogService, _ := newTestRouter(t)

	price := 10.0
	stock := 1
	_, err := catalogService.Create(context.Background(), catalog.CreateProductForm{
		Title:       "Routed Product",
		Description: "d",
		Code:        "R-001",
		Price:       &price,
		Stock:       &stock,
		Category:    "misc",
	})
	require.NoError(t, err)

	for _, path := range []string{"/api/products", "/products", "/realtimeproducts"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), "Routed Product", path)
	}
}

func TestRouterSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestRouter(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestRouterStaticAssetsCached(t *testing.T) {
	srv, _, _ := newTestRouter(t)

	resp, err := http.Get(srv.URL + "/static/css/main.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestRouterStreamsEvents(t *testing.T) {
	srv, catalogService, hub := newTestRouter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Wait until the stream handler registered its hub subscription.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	price := 25.0
	stock := 3
	_, err = catalogService.Create(context.Background(), catalog.CreateProductForm{
		Title:       "Streamed Product",
		Description: "d",
		Code:        "S-001",
		Price:       &price,
		Stock:       &stock,
		Category:    "misc",
	})
	require.NoError(t, err)

	reader := bufio.NewReader(resp.Body)
	var eventLine string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			eventLine = strings.TrimSpace(line)
			break
		}
	}
	assert.Equal(t, "event: productAdded", eventLine)

	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, dataLine, "Streamed Product")
}

func TestRouterMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestRouter(t)

	// Generate one counted request before scraping.
	warm, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	warm.Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mitienda_http_requests_total")
}
