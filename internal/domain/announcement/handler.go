package announcement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles announcement HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates announcement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /announcements
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	announcements, err := h.service.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list announcements")
		response.InternalError(w)
		return
	}
	response.OK(w, announcements)
}

// Create handles POST /announcements
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

	a, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create announcement")
		response.InternalError(w)
		return
	}
	response.Created(w, a)
}

// Delete handles DELETE /announcements/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid announcement ID")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Announcement not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete announcement")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// Routes returns the announcement router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)

	publish := guards.RequireAction(perm.RequireCapability(perm.CapCreateAnnouncement), "announcements.publish")
	r.With(publish).Post("/", h.Create)
	r.With(publish).Delete("/{id}", h.Delete)

	return r
}
