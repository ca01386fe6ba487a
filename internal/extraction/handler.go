package extraction

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/roles"
	"github.com/scentdesk/scentdesk/internal/shared"
)

// Handler serves PDF extraction endpoints.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	maxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, maxUploadBytes int64) *Handler {
	return &Handler{logger: logger, service: service, maxUploadBytes: maxUploadBytes}
}

// MountRoutes registers extraction routes.
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAny(roles.PermCustomersView, roles.PermCustomersEdit))
		r.Post("/", h.start)
		r.Get("/{id}", h.status)
		r.Get("/{id}/result", h.result)
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Upload Too Large", "the uploaded file exceeds the size limit")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "could not read upload")
		return
	}

	status, err := h.service.Start(r.Context(), userID, header.Filename, pdf)
	if err != nil {
		h.respondError(w, "start extraction", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, status)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "extraction status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, status)
}

func (h *Handler) result(w http.ResponseWriter, r *http.Request) {
	csv, filename, err := h.service.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "extraction result", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.TrimSuffix(filename, ".pdf")+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csv)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrJobNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "extraction job not found")
	case errors.Is(err, ErrNotPDF), errors.Is(err, ErrNoPages):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, ErrNotReady):
		httpx.Problem(w, http.StatusConflict, "Not Ready", err.Error())
	case errors.Is(err, ErrFailed):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Extraction Failed", err.Error())
	case errors.Is(err, httpx.ErrQuotaExceeded):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
