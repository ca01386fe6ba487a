package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scentdesk/scentdesk/internal/auth"
	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/emails"
	"github.com/scentdesk/scentdesk/internal/export"
	"github.com/scentdesk/scentdesk/internal/extraction"
	"github.com/scentdesk/scentdesk/internal/formulas"
	"github.com/scentdesk/scentdesk/internal/groups"
	"github.com/scentdesk/scentdesk/internal/observability"
	"github.com/scentdesk/scentdesk/internal/orders"
	"github.com/scentdesk/scentdesk/internal/quotas"
	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/reviews"
	"github.com/scentdesk/scentdesk/internal/roles"
	"github.com/scentdesk/scentdesk/internal/shared"
	"github.com/scentdesk/scentdesk/internal/users"
	"github.com/scentdesk/scentdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	RBACMiddleware rbac.Middleware

	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	RolesHandler      *roles.Handler
	CustomersHandler  *customers.Handler
	FormulasHandler   *formulas.Handler
	GroupsHandler     *groups.Handler
	ReviewsHandler    *reviews.Handler
	OrdersHandler     *orders.Handler
	QuotasHandler     *quotas.Handler
	ExportHandler     *export.Handler
	ExtractionHandler *extraction.Handler
	EmailsHandler     *emails.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	guard := params.RBACMiddleware

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/roles", params.RolesHandler.MountRoutes)
	r.Route("/customers", func(r chi.Router) {
		params.CustomersHandler.MountRoutes(r, guard)
	})
	r.Route("/formulas", func(r chi.Router) {
		params.FormulasHandler.MountRoutes(r, guard)
	})
	r.Route("/groups", func(r chi.Router) {
		params.GroupsHandler.MountRoutes(r, guard)
	})
	r.Route("/customer-reviews", func(r chi.Router) {
		params.ReviewsHandler.MountRoutes(r, guard)
	})
	r.Route("/orders", func(r chi.Router) {
		params.OrdersHandler.MountRoutes(r, guard)
	})
	r.Route("/quotas", params.QuotasHandler.MountRoutes)
	r.Route("/export", func(r chi.Router) {
		params.ExportHandler.MountRoutes(r, guard)
	})
	r.Route("/extractions", func(r chi.Router) {
		params.ExtractionHandler.MountRoutes(r, guard)
	})
	r.Route("/emails", func(r chi.Router) {
		params.EmailsHandler.MountRoutes(r, guard)
	})
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
