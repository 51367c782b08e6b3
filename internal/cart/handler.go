package cart

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitienda/mitienda/internal/platform/httpx"
	"github.com/mitienda/mitienda/internal/shared"
)

// Handler exposes the cart JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the cart HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the cart routes, mounted under /api/carts.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{cid}", h.Get)
	r.Put("/{cid}", h.ReplaceItems)
	r.Delete("/{cid}", h.Clear)
	r.Post("/{cid}/product/{pid}", h.AddItem)
	r.Put("/{cid}/products/{pid}", h.SetItemQuantity)
	r.Delete("/{cid}/products/{pid}", h.RemoveItem)
}

type quantityForm struct {
	Quantity int `json:"quantity"`
}

type replaceForm struct {
	Products []LineItem `json:"products"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Create(r.Context())
	if err != nil {
		h.respondError(w, r, "create cart", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cart)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		h.respondError(w, r, "get cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	form := quantityForm{Quantity: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
			return
		}
	}
	cart, err := h.service.AddItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), form.Quantity)
	if err != nil {
		h.respondError(w, r, "add line item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart.Items)
}

func (h *Handler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	var form quantityForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	item, err := h.service.SetItemQuantity(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), form.Quantity)
	if err != nil {
		h.respondError(w, r, "set line item quantity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		h.respondError(w, r, "remove line item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart.Items)
}

func (h *Handler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	var form replaceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	cart, err := h.service.ReplaceItems(r.Context(), chi.URLParam(r, "cid"), form.Products)
	if err != nil {
		h.respondError(w, r, "replace line items", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Clear(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		h.respondError(w, r, "clear cart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !shared.IsClientError(err) {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
