package groups

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/roles"
	"github.com/scentdesk/scentdesk/internal/shared"
)

// Handler serves group endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers group routes.
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAny(roles.PermCustomersView, roles.PermGroupsEdit))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAll(roles.PermGroupsEdit))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/members", h.addMembers)
		r.Delete("/{id}/members", h.removeMembers)
		r.Post("/merge", h.merge)
	})
}

// CustomerGroups is injected into the customers handler so it can expose
// GET /customers/{id}/groups without importing this package.
func (h *Handler) CustomerGroups(r *http.Request, customerID int64) (any, error) {
	return h.service.ListByCustomer(r.Context(), customerID)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	group, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get group", err)
		return
	}
	httpx.JSON(w, http.StatusOK, group)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	group, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.respondError(w, "create group", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, group)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	group, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update group", err)
		return
	}
	httpx.JSON(w, http.StatusOK, group)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addMembers(w http.ResponseWriter, r *http.Request) {
	h.members(w, r, h.service.AddMembers)
}

func (h *Handler) removeMembers(w http.ResponseWriter, r *http.Request) {
	h.members(w, r, h.service.RemoveMembers)
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, groupID int64, req MembersRequest) error) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req MembersRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := op(r.Context(), id, req); err != nil {
		h.respondError(w, "group members", err)
		return
	}
	group, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "group members", err)
		return
	}
	httpx.JSON(w, http.StatusOK, group)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid group id")
		return 0, false
	}
	return id, true
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	group, err := h.service.Merge(r.Context(), req)
	if err != nil {
		h.respondError(w, "merge groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, group)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "group not found")
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Conflict", "a group with this name already exists")
	case errors.Is(err, ErrMergeIntoSource):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
