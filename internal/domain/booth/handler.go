package booth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles booth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /booth
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	booths, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list booths")
		response.InternalError(w)
		return
	}
	response.OK(w, booths)
}

// Create handles POST /booth
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	res, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create booth")
		response.InternalError(w)
		return
	}
	response.Created(w, res)
}

// Code handles GET /booth/{id}/code
func (h *Handler) Code(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booth ID")
		return
	}

	code, err := h.service.Code(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Booth not found")
			return
		}
		log.Error().Err(err).Msg("Failed to issue booth code")
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"code": code})
}

// SetActive handles PATCH /booth/{id}
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booth ID")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.SetActive(r.Context(), middleware.GetUserID(r.Context()), id, req.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Booth not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update booth")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Redeem handles POST /booth/redeem
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	res, err := h.service.Redeem(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			response.BadRequest(w, "Invalid or tampered QR code")
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Booth not found")
		case errors.Is(err, ErrInactive):
			response.Conflict(w, "Booth is not active")
		case errors.Is(err, ErrAlreadyRedeemed):
			response.Conflict(w, "Booth already redeemed by this user")
		case errors.Is(err, user.ErrNotFound):
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Msg("Redemption failed")
			response.InternalError(w)
		}
		return
	}
	response.OK(w, res)
}

// Routes returns the booth router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	redeem := guards.RequireAction(perm.RequireCapability(perm.CapRedeemBooth), "booth.redeem")
	r.With(redeem).Get("/", h.List)
	r.With(redeem).Post("/redeem", h.Redeem)

	manage := guards.RequireAction(perm.RequireCapability(perm.CapSystemAdmin), "booth.manage")
	r.With(manage).Post("/", h.Create)
	r.With(manage).Get("/{id}/code", h.Code)
	r.With(manage).Patch("/{id}", h.SetActive)

	return r
}
