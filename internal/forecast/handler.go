package forecast

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/stokpintar/stokpintar/internal/platform/httpx"
	"github.com/stokpintar/stokpintar/internal/shared"
)

const (
	dateLayout = "2006-01-02"

	// The plan endpoint walks every item's history, so it is rate limited
	// more aggressively than the rest of the API.
	rateLimit  = 10
	rateWindow = time.Minute
)

// Handler wires the forecasting endpoint.
type Handler struct {
	logger          *slog.Logger
	service         *Service
	validator       *validator.Validate
	defaultLeadTime int
}

// NewHandler constructs a Handler. defaultLeadTime applies when neither the
// request nor the item carries a lead time.
func NewHandler(logger *slog.Logger, service *Service, defaultLeadTime int) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), defaultLeadTime: defaultLeadTime}
}

// MountRoutes registers forecast routes. Forecasting is owner-only and the
// role check runs before any data access.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(rateLimit, rateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
		}),
	)
	r.Group(func(gr chi.Router) {
		gr.Use(shared.RequireRole(shared.RoleOwner))
		gr.Use(limiter)
		gr.Post("/", h.handlePlan)
	})
}

type planRequest struct {
	StartDate string `json:"tanggal_mulai" validate:"required"`
	EndDate   string `json:"tanggal_akhir" validate:"required"`
	LeadTime  int    `json:"lead_time" validate:"omitempty,gte=0"`
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "periode (tanggal_mulai, tanggal_akhir) wajib diisi")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "format tanggal tidak valid")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "format tanggal tidak valid")
		return
	}
	if start.After(end) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "tanggal mulai tidak boleh lebih besar dari tanggal akhir")
		return
	}

	leadTime := req.LeadTime
	if leadTime <= 0 {
		leadTime = h.defaultLeadTime
	}
	plan, err := h.service.Plan(r.Context(), Request{
		Start:           start,
		End:             end,
		DefaultLeadTime: leadTime,
	})
	if err != nil {
		h.logger.Error("compute forecast", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, plan)
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
