package adminpanel

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles admin panel HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin panel handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Overview handles GET /admin/overview
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build admin overview")
		response.InternalError(w)
		return
	}
	response.OK(w, overview)
}

// Sections handles GET /admin/sections
func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.Sections(middleware.GetSnapshot(r.Context())))
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, total, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		response.InternalError(w)
		return
	}
	response.WithMeta(w, users, response.Meta{Total: total, Limit: limit})
}

// SetRole handles PUT /admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req SetRoleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.SetRole(r.Context(), middleware.GetUserID(r.Context()), id, &req); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update role")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Audit handles GET /admin/audit
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.service.Audit(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit log")
		response.InternalError(w)
		return
	}
	response.OK(w, logs)
}

// Switches handles GET /admin/switches
func (h *Handler) Switches(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.Switches(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read action switches")
		response.InternalError(w)
		return
	}
	response.OK(w, states)
}

// SetSwitch handles PUT /admin/switches/{name}
func (h *Handler) SetSwitch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req SetSwitchRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.SetSwitch(r.Context(), middleware.GetUserID(r.Context()), name, req.Enabled); err != nil {
		log.Error().Err(err).Msg("Failed to set action switch")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Routes returns the admin panel router. Sections and overview need any
// admin-facing capability; the rest is gated per area.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	anyAdmin := guards.Require(perm.RequireAny(
		perm.CapGivePoints, perm.CapManageUsers, perm.CapCreateAnnouncement,
		perm.CapManageMarket, perm.CapSystemAdmin, perm.CapRedeemBooth,
	))
	r.With(anyAdmin).Get("/overview", h.Overview)
	r.With(anyAdmin).Get("/sections", h.Sections)

	manageUsers := guards.RequireAction(perm.RequireCapability(perm.CapManageUsers), "admin.users")
	r.With(manageUsers).Get("/users", h.ListUsers)
	r.With(manageUsers).Put("/users/{id}/role", h.SetRole)

	sysAdmin := guards.Require(perm.RequireCapability(perm.CapSystemAdmin))
	r.With(sysAdmin).Get("/audit", h.Audit)
	r.With(sysAdmin).Get("/switches", h.Switches)
	r.With(sysAdmin).Put("/switches/{name}", h.SetSwitch)

	return r
}
