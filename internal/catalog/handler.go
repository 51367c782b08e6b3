package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mitienda/mitienda/internal/platform/httpx"
	"github.com/mitienda/mitienda/internal/shared"
)

// Handler exposes the product JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the catalog HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the product routes, mounted under /api/products.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{pid}", h.Get)
	r.Put("/{pid}", h.Update)
	r.Delete("/{pid}", h.Delete)
}

// listResponse mirrors the pagination block the storefront consumes.
type listResponse struct {
	Items       []Product `json:"items"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
	PrevPage    *int      `json:"prevPage"`
	NextPage    *int      `json:"nextPage"`
}

// ParseListQuery reads limit, page, sort and query parameters with the
// storefront defaults.
func ParseListQuery(r *http.Request) ListQuery {
	q := ListQuery{
		Query: r.URL.Query().Get("query"),
		Sort:  r.URL.Query().Get("sort"),
		Page:  1,
		Limit: 10,
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), ParseListQuery(r))
	if err != nil {
		h.respondError(w, r, "list products", err)
		return
	}

	resp := listResponse{
		Items:       result.Items,
		TotalPages:  result.Pagination.TotalPages,
		CurrentPage: result.Pagination.Page,
		HasPrevPage: result.Pagination.HasPrev(),
		HasNextPage: result.Pagination.HasNext(),
	}
	if prev := result.Pagination.Prev(); prev > 0 {
		resp.PrevPage = &prev
	}
	if next := result.Pagination.Next(); next > 0 {
		resp.NextPage = &next
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.respondError(w, r, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form CreateProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.respondError(w, r, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var form UpdateProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	product, err := h.service.Update(r.Context(), chi.URLParam(r, "pid"), form)
	if err != nil {
		h.respondError(w, r, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Delete(r.Context(), chi.URLParam(r, "pid")); err != nil {
		h.respondError(w, r, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !shared.IsClientError(err) {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
