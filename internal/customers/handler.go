package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
)

// Handler serves customer endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	groups  GroupLookup
}

// GroupLookup resolves the groups a customer belongs to; wired from the groups
// package to serve GET /customers/{id}/groups without an import cycle.
type GroupLookup func(r *http.Request, customerID int64) (any, error)

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, groups GroupLookup) *Handler {
	return &Handler{logger: logger, service: service, groups: groups}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := parseListRequest(r)
	items, pagination, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": pagination,
	})
}

// ListIDs backs the select-all action: the full filtered ID set, unpaginated.
// Passing the current selection via `selected` makes the action a toggle; any
// non-empty selection clears instead of selecting everything.
func (h *Handler) ListIDs(w http.ResponseWriter, r *http.Request) {
	req := parseListRequest(r)
	selected := parseIDList(r.URL.Query().Get("selected"))
	ids, err := h.service.SelectAllIDs(r.Context(), req, selected)
	if err != nil {
		h.respondError(w, "list customer ids", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ids": ids, "total": len(ids)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	customer, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.BulkUpdate(r.Context(), req); err != nil {
		h.respondError(w, "bulk update customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": len(req.IDs)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	files, err := h.service.ListFiles(r.Context(), id)
	if err != nil {
		h.respondError(w, "list customer files", err)
		return
	}
	if files == nil {
		files = []File{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": files})
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if h.groups == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": []any{}})
		return
	}
	result, err := h.groups(r, id)
	if err != nil {
		h.respondError(w, "list customer groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": result})
}

func parseListRequest(r *http.Request) ListCustomersRequest {
	q := r.URL.Query()
	req := ListCustomersRequest{
		Search:  q.Get("search"),
		Country: q.Get("country"),
	}
	if v := q.Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Year = parsed
		}
	}
	if v := q.Get("month"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Month = parsed
		}
	}
	if v := q.Get("verified"); v != "" {
		verified := v == "true"
		req.Verified = &verified
	}
	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Page = parsed
		}
	}
	if v := q.Get("per_page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.PerPage = parsed
		}
	}
	return req
}

func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid customer id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", "customer already exists")
	case errors.Is(err, ErrInvalidDate):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
