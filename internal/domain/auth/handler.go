package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid name or password")
		case errors.Is(err, user.ErrInactive):
			response.Forbidden(w, "Account is inactive")
		default:
			log.Error().Err(err).Str("name", req.Name).Msg("Login failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		log.Error().Err(err).Msg("Logout failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Permissions handles GET /auth/permissions
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	result, err := h.service.Permissions(r.Context(), userID)
	if err != nil {
		// Fail closed: an unresolvable permission fetch reads as denied
		response.Forbidden(w, "Insufficient permissions")
		return
	}

	response.OK(w, result)
}

// Routes returns auth router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/logout", h.Logout)
		r.Get("/permissions", h.Permissions)
	})

	return r
}
