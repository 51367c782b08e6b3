// Package pages serves the server-rendered storefront.
package pages

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/shared"
	"github.com/mitienda/mitienda/internal/view"
)

// Handler renders the storefront pages.
type Handler struct {
	logger    *slog.Logger
	catalog   *catalog.Service
	carts     *cart.Service
	templates *view.Engine
}

// NewHandler constructs the pages handler.
func NewHandler(logger *slog.Logger, catalogService *catalog.Service, cartService *cart.Service, templates *view.Engine) *Handler {
	return &Handler{
		logger:    logger,
		catalog:   catalogService,
		carts:     cartService,
		templates: templates,
	}
}

// MountRoutes attaches the storefront routes at the router root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	})
	r.Get("/products", h.ProductList)
	r.Get("/products/{pid}", h.ProductDetail)
	r.Get("/carts/{cid}", h.Cart)
	r.Get("/realtimeproducts", h.RealTimeProducts)
}

// ProductList renders the paginated catalog with filter and sort links.
func (h *Handler) ProductList(w http.ResponseWriter, r *http.Request) {
	q := catalog.ParseListQuery(r)
	result, err := h.catalog.List(r.Context(), q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "pages/products.html", "Products", view.ComposeProductList(result, q, "/products"))
}

// ProductDetail renders one product.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "pages/product.html", product.Title, product)
}

// Cart renders a cart with resolved line items and computed totals.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.carts.Get(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "pages/cart.html", "Cart", view.ComposeCart(resolved))
}

// RealTimeProducts renders the live board fed by the SSE stream.
func (h *Handler) RealTimeProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.List(r.Context(), catalog.ListQuery{Page: 1, Limit: 100})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, "pages/realtime.html", "Live Products", map[string]any{
		"Products": result.Items,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.templates.Render(w, name, view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Data:        data,
	})
	if err != nil {
		h.logger.Error("render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "Something went wrong"
	if errors.Is(err, shared.ErrNotFound) {
		status = http.StatusNotFound
		msg = "Not found"
	} else {
		h.logger.Error("storefront page", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	renderErr := h.templates.Render(w, "pages/error.html", view.TemplateData{
		Title: "Error",
		Data:  map[string]any{"Message": msg},
	})
	if renderErr != nil {
		h.logger.Error("render error page", slog.Any("error", renderErr))
	}
}
