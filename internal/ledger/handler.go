package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stokpintar/stokpintar/internal/platform/httpx"
	"github.com/stokpintar/stokpintar/internal/shared"
)

// Handler wires HTTP endpoints for stock movements.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers movement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/movements", h.handleList)
	r.Post("/movements", h.handleCreate)
	r.Put("/movements/{id}", h.handleUpdate)
	r.Delete("/movements/{id}", h.handleDelete)
}

type movementPayload struct {
	ItemID     string `json:"barang_id"`
	Kind       string `json:"tipe"`
	Quantity   int    `json:"jumlah"`
	OccurredAt string `json:"tanggal"`
}

type itemJSON struct {
	ID    string `json:"id"`
	Code  string `json:"kode"`
	Name  string `json:"nama"`
	Stock int    `json:"stok"`
}

type movementJSON struct {
	ID         string   `json:"id"`
	ItemID     string   `json:"barang_id"`
	Kind       string   `json:"tipe"`
	Quantity   int      `json:"jumlah"`
	OccurredAt string   `json:"tanggal"`
	Item       itemJSON `json:"barang"`
}

type movementListJSON struct {
	ID           string `json:"id"`
	ItemID       string `json:"barang_id"`
	Kind         string `json:"tipe"`
	Quantity     int    `json:"jumlah"`
	OccurredAt   string `json:"tanggal"`
	ItemCode     string `json:"kode"`
	ItemName     string `json:"nama"`
	CategoryName string `json:"kategori_nama"`
	Unit         string `json:"satuan"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list movements", err)
		return
	}
	out := make([]movementListJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, movementListJSON{
			ID:           rec.ID,
			ItemID:       rec.ItemID,
			Kind:         string(rec.Kind),
			Quantity:     rec.Quantity,
			OccurredAt:   rec.OccurredAt.Format(time.RFC3339),
			ItemCode:     rec.ItemCode,
			ItemName:     rec.ItemName,
			CategoryName: rec.CategoryName,
			Unit:         rec.Unit,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload movementPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	if payload.ItemID == "" || payload.Kind == "" || payload.Quantity == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "data tidak lengkap")
		return
	}
	if err := h.validateKindQuantity(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	occurredAt, ok := h.parseOccurredAt(w, payload.OccurredAt)
	if !ok {
		return
	}

	entry, err := h.service.Create(r.Context(), CreateInput{
		ItemID:     payload.ItemID,
		Kind:       MovementKind(payload.Kind),
		Quantity:   payload.Quantity,
		OccurredAt: occurredAt,
		ActorID:    actorID(r),
	})
	if err != nil {
		h.respondError(w, "create movement", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMovementJSON(entry))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload movementPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	if err := h.validateKindQuantity(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	occurredAt, ok := h.parseOccurredAt(w, payload.OccurredAt)
	if !ok {
		return
	}

	entry, err := h.service.Update(r.Context(), id, UpdateInput{
		Kind:       MovementKind(payload.Kind),
		Quantity:   payload.Quantity,
		OccurredAt: occurredAt,
		ActorID:    actorID(r),
	})
	if err != nil {
		h.respondError(w, "update movement", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMovementJSON(entry))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.service.Delete(r.Context(), id, actorID(r))
	if err != nil {
		h.respondError(w, "delete movement", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "barang": toItemJSON(entry.Item)})
}

func (h *Handler) validateKindQuantity(payload movementPayload) error {
	if !MovementKind(payload.Kind).Valid() {
		return ErrInvalidKind
	}
	if payload.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (h *Handler) parseOccurredAt(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "format tanggal tidak valid")
	return time.Time{}, false
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", "stok tidak mencukupi")
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrMovementNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidKind):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func toMovementJSON(entry Entry) movementJSON {
	return movementJSON{
		ID:         entry.Movement.ID,
		ItemID:     entry.Movement.ItemID,
		Kind:       string(entry.Movement.Kind),
		Quantity:   entry.Movement.Quantity,
		OccurredAt: entry.Movement.OccurredAt.Format(time.RFC3339),
		Item:       toItemJSON(entry.Item),
	}
}

func toItemJSON(item ItemStock) itemJSON {
	return itemJSON{ID: item.ID, Code: item.Code, Name: item.Name, Stock: item.Stock}
}

func actorID(r *http.Request) int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0
	}
	id, _ := strconv.ParseInt(sess.User(), 10, 64)
	return id
}
