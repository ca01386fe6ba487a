package customers

import (
	"github.com/go-chi/chi/v5"

	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/roles"
)

// MountRoutes registers customer routes behind the view/edit permissions.
func (h *Handler) MountRoutes(r chi.Router, guard rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAny(roles.PermCustomersView, roles.PermCustomersEdit))
		r.Get("/", h.List)
		r.Get("/ids", h.ListIDs)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/files", h.ListFiles)
		r.Get("/{id}/groups", h.ListGroups)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAll(roles.PermCustomersEdit))
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Post("/bulk", h.BulkUpdate)
		r.Delete("/{id}", h.Delete)
	})
}
