package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/observability"
	"github.com/mitienda/mitienda/internal/pages"
	"github.com/mitienda/mitienda/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	CatalogHandler *catalog.Handler
	CartHandler    *cart.Handler
	PagesHandler   *pages.Handler
	Events         http.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		if params.Config != nil && params.Config.AppRequestTimeout > 0 {
			r.Use(chimw.Timeout(params.Config.AppRequestTimeout))
		}
		r.Route("/api/products", params.CatalogHandler.MountRoutes)
		r.Route("/api/carts", params.CartHandler.MountRoutes)
		params.PagesHandler.MountRoutes(r)
	})

	// The event stream stays outside the request timeout: it lives for as
	// long as the browser keeps the connection open.
	if params.Events != nil {
		r.Method(http.MethodGet, "/events", params.Events)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers so
// browsers keep assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
