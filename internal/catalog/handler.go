package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stokpintar/stokpintar/internal/platform/httpx"
)

// Handler wires HTTP endpoints for catalog management.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.handleListItems)
	r.Post("/items", h.handleCreateItem)
	r.Get("/items/{id}", h.handleGetItem)
	r.Put("/items/{id}", h.handleUpdateItem)
	r.Delete("/items/{id}", h.handleDeleteItem)

	r.Get("/categories", h.handleListCategories)
	r.Post("/categories", h.handleCreateCategory)
	r.Put("/categories/{id}", h.handleRenameCategory)
	r.Delete("/categories/{id}", h.handleDeleteCategory)
}

type itemPayload struct {
	Name       string  `json:"nama"`
	Unit       string  `json:"satuan"`
	Stock      int     `json:"stok"`
	LeadTime   *int    `json:"lead_time"`
	CategoryID *string `json:"kategori_id"`
}

type itemJSON struct {
	ID           string  `json:"id"`
	Code         string  `json:"kode"`
	Name         string  `json:"nama"`
	Unit         string  `json:"satuan"`
	Stock        int     `json:"stok"`
	LeadTime     *int    `json:"lead_time"`
	CategoryID   *string `json:"kategori_id"`
	CategoryName string  `json:"kategori_nama,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type categoryPayload struct {
	Name string `json:"nama"`
}

type categoryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"nama"`
	ItemCount int    `json:"jumlah_barang"`
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.respondError(w, "list items", err)
		return
	}
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toItemJSON(item))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemJSON(item))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	item, err := h.service.CreateItem(r.Context(), ItemInput{
		Name:         payload.Name,
		Unit:         payload.Unit,
		Stock:        payload.Stock,
		LeadTimeDays: payload.LeadTime,
		CategoryID:   payload.CategoryID,
	})
	if err != nil {
		h.respondError(w, "create item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemJSON(item))
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), ItemInput{
		Name:         payload.Name,
		Unit:         payload.Unit,
		LeadTimeDays: payload.LeadTime,
		CategoryID:   payload.CategoryID,
	})
	if err != nil {
		h.respondError(w, "update item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemJSON(item))
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, "list categories", err)
		return
	}
	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, ItemCount: c.ItemCount})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	category, err := h.service.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		h.respondError(w, "create category", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, categoryJSON{ID: category.ID, Name: category.Name})
}

func (h *Handler) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	if err := h.service.RenameCategory(r.Context(), chi.URLParam(r, "id"), payload.Name); err != nil {
		h.respondError(w, "rename category", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete category", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDuplicateCategory):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrCategoryNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func toItemJSON(item Item) itemJSON {
	return itemJSON{
		ID:           item.ID,
		Code:         item.Code,
		Name:         item.Name,
		Unit:         item.Unit,
		Stock:        item.Stock,
		LeadTime:     item.LeadTimeDays,
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
	}
}
