package market

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles market HTTP requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates market handler
func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
	}
}

// Status handles GET /market/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Status(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load market state")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// Open handles POST /market/open
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Open(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			response.Conflict(w, "Market is already open")
			return
		}
		log.Error().Err(err).Msg("Failed to open market")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// Close handles POST /market/close
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Close(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrAlreadyClosed) {
			response.Conflict(w, "Market is already closed")
			return
		}
		log.Error().Err(err).Msg("Failed to close market")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// UpdateIPO handles PUT /market/ipo
func (h *Handler) UpdateIPO(w http.ResponseWriter, r *http.Request) {
	var req IPORequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	state, err := h.service.UpdateIPO(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update IPO parameters")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// ResetIPO handles POST /market/ipo/reset
func (h *Handler) ResetIPO(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ResetIPO(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("Failed to reset IPO parameters")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// SetTradingLimit handles PUT /market/limit
func (h *Handler) SetTradingLimit(w http.ResponseWriter, r *http.Request) {
	var req TradingLimitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	state, err := h.service.SetTradingLimit(r.Context(), middleware.GetUserID(r.Context()), req.Limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to set trading limit")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// SetTransferFee handles PUT /market/fee
func (h *Handler) SetTransferFee(w http.ResponseWriter, r *http.Request) {
	var req TransferFeeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	state, err := h.service.SetTransferFee(r.Context(), middleware.GetUserID(r.Context()), req.FeeBps)
	if err != nil {
		log.Error().Err(err).Msg("Failed to set transfer fee")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// SetTradingHours handles PUT /market/hours
func (h *Handler) SetTradingHours(w http.ResponseWriter, r *http.Request) {
	var req TradingHoursRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	state, err := h.service.SetTradingHours(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidHours) {
			response.BadRequest(w, "Close time must be after open time")
			return
		}
		log.Error().Err(err).Msg("Failed to set trading hours")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// RecordPrice handles POST /market/price
func (h *Handler) RecordPrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	point, err := h.service.RecordPrice(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to record price")
		response.InternalError(w)
		return
	}
	response.Created(w, point)
}

// Candles handles GET /market/candles
func (h *Handler) Candles(w http.ResponseWriter, r *http.Request) {
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "5m"
	}
	since := time.Now().Add(-24 * time.Hour)
	if s := r.URL.Query().Get("since"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			response.BadRequest(w, "Invalid since timestamp, use RFC3339")
			return
		}
		since = parsed
	}

	candles, err := h.service.Candles(r.Context(), interval, since)
	if err != nil {
		if errors.Is(err, ErrInvalidInterval) {
			response.BadRequest(w, "Unsupported interval")
			return
		}
		log.Error().Err(err).Msg("Failed to build candles")
		response.InternalError(w)
		return
	}
	response.OK(w, candles)
}

// ForceSettle handles POST /market/settle
func (h *Handler) ForceSettle(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	state, err := h.service.ForceSettle(r.Context(), middleware.GetUserID(r.Context()), req.Confirm)
	if err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			response.BadRequest(w, "Settlement requires explicit confirmation")
			return
		}
		log.Error().Err(err).Msg("Forced settlement failed")
		response.InternalError(w)
		return
	}
	response.OK(w, state)
}

// ResetAll handles POST /market/reset
func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.ResetAll(r.Context(), middleware.GetUserID(r.Context()), req.Confirm); err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			response.BadRequest(w, "Reset requires explicit confirmation")
			return
		}
		log.Error().Err(err).Msg("Full reset failed")
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"status": "reset"})
}

// Ticker handles GET /ws, upgrading to the market event stream
func (h *Handler) Ticker(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &Connection{Conn: conn, Send: make(chan []byte, 16)}
	h.hub.Register(c)
	go c.WritePump()

	// Read loop only to detect disconnect
	go func() {
		defer h.hub.Unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Routes returns the market router. Reads are public to authenticated
// users; every mutation is independently guarded, and the destructive
// ones additionally require system_admin plus explicit confirmation.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/status", h.Status)
	r.Get("/candles", h.Candles)

	manage := guards.RequireAction(perm.RequireCapability(perm.CapManageMarket), "market.manage")
	r.With(manage).Post("/open", h.Open)
	r.With(manage).Post("/close", h.Close)
	r.With(manage).Put("/ipo", h.UpdateIPO)
	r.With(manage).Post("/ipo/reset", h.ResetIPO)
	r.With(manage).Put("/limit", h.SetTradingLimit)
	r.With(manage).Put("/fee", h.SetTransferFee)
	r.With(manage).Put("/hours", h.SetTradingHours)
	r.With(manage).Post("/price", h.RecordPrice)

	destructive := guards.RequireAction(perm.RequireCapability(perm.CapSystemAdmin), "market.destructive")
	r.With(destructive).Post("/settle", h.ForceSettle)
	r.With(destructive).Post("/reset", h.ResetAll)

	return r
}
