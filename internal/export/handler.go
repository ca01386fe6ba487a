package export

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/roles"
	"github.com/scentdesk/scentdesk/internal/shared"
)

// Handler serves CSV export endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers export routes.
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAny(roles.PermCustomersView, roles.PermCustomersEdit, roles.PermOrdersEdit))
		r.Post("/csv", h.csv)
	})
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	// Buffer the file so quota or load failures still produce a clean
	// problem response instead of a truncated download.
	var buf bytes.Buffer
	if err := h.service.WriteCSV(r.Context(), userID, req, &buf); err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(req.Entity)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownEntity), errors.Is(err, ErrEmptySelection):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, httpx.ErrQuotaExceeded):
		httpx.RespondError(w, err)
	default:
		h.logger.Error("csv export", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
