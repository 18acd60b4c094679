package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/campmarket/campmarket-api/internal/domain/user"
	"github.com/campmarket/campmarket-api/internal/middleware"
	"github.com/campmarket/campmarket-api/internal/perm"
	"github.com/campmarket/campmarket-api/internal/pkg/response"
	"github.com/campmarket/campmarket-api/internal/pkg/validator"
)

// Handler handles ledger HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func queryFromRequest(r *http.Request) ListQuery {
	q := ListQuery{
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sort"),
		Order:  r.URL.Query().Get("order"),
		Merge:  r.URL.Query().Get("merge") == "transfers",
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			q.Limit = v
		}
	}
	return q
}

// List handles GET /ledger
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.service.List(r.Context(), userID, queryFromRequest(r))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list ledger")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, entries, response.Meta{Total: len(entries)})
}

// ListAll handles GET /ledger/all, the cross-user admin view. This is
// the surface where merge=transfers pairs both legs of a transfer.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListAll(r.Context(), queryFromRequest(r))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list full ledger")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, entries, response.Meta{Total: len(entries)})
}

// Export handles GET /ledger/export, streaming the filtered view as CSV
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.service.List(r.Context(), userID, queryFromRequest(r))
	if err != nil {
		log.Error().Err(err).Msg("Failed to export ledger")
		response.InternalError(w)
		return
	}

	filename := "ledger-" + time.Now().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(w, entries); err != nil {
		log.Error().Err(err).Msg("CSV write failed")
	}
}

// Grant handles POST /points/grant
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rec, err := h.service.Grant(r.Context(), &req, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Amount must be non-zero")
		case errors.Is(err, ErrInsufficientBalance):
			response.Conflict(w, "Adjustment would make the balance negative")
		default:
			log.Error().Err(err).Msg("Grant failed")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, EntryFromRecord(rec))
}

// Transfer handles POST /points/transfer
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	senderID := middleware.GetUserID(r.Context())
	result, err := h.service.Transfer(r.Context(), senderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfTransfer):
			response.BadRequest(w, "Cannot transfer to yourself")
		case errors.Is(err, ErrRecipientNotFound):
			response.NotFound(w, "Recipient not found")
		case errors.Is(err, ErrInsufficientBalance):
			response.Conflict(w, "Insufficient balance")
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Amount must be positive")
		default:
			log.Error().Err(err).Msg("Transfer failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Routes returns the ledger router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/export", h.Export)
	r.With(guards.Require(perm.RequireCapability(perm.CapSystemAdmin))).
		Get("/all", h.ListAll)

	return r
}

// PointsRoutes returns the guarded points mutation router
func (h *Handler) PointsRoutes(authMiddleware func(http.Handler) http.Handler, guards *middleware.Guards) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.With(guards.RequireAction(perm.RequireCapability(perm.CapGivePoints), "points.grant")).
		Post("/grant", h.Grant)
	r.With(guards.RequireAction(perm.Requirement{}, "points.transfer")).
		Post("/transfer", h.Transfer)

	return r
}
