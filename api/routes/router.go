package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardidrizi/inventory-saas/api/controllers"
	"github.com/ardidrizi/inventory-saas/api/middleware"
	auditsvc "github.com/ardidrizi/inventory-saas/internal/audit"
	authsvc "github.com/ardidrizi/inventory-saas/internal/auth"
	dashboardsvc "github.com/ardidrizi/inventory-saas/internal/dashboard"
	ordersvc "github.com/ardidrizi/inventory-saas/internal/orders"
	productsvc "github.com/ardidrizi/inventory-saas/internal/products"
	usersvc "github.com/ardidrizi/inventory-saas/internal/users"
	"github.com/ardidrizi/inventory-saas/pkg/config"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
	"github.com/ardidrizi/inventory-saas/pkg/metrics"
)

// Deps bundles everything the route table needs. Cache may be nil when redis
// is not configured; HTTPMetrics and Gatherer may be nil in tests.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Cache       controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth      authsvc.Service
	Users     usersvc.Service
	Products  productsvc.Service
	Orders    ordersvc.Service
	Audit     auditsvc.Service
	Dashboard dashboardsvc.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Cache, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/login", controllers.AuthLogin(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(deps.Products, logg))
				r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin))
					r.Post("/", controllers.ProductCreate(deps.Products, logg))
					r.Put("/{productId}", controllers.ProductUpdate(deps.Products, logg))
					r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(deps.Orders, logg))

				r.With(middleware.RequireRoles(logg, enums.UserRoleAdmin)).
					Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin))
				r.Get("/", controllers.UserList(deps.Users, logg))
				r.Patch("/{userId}/role", controllers.UserUpdateRole(deps.Users, logg))
				r.Patch("/{userId}/status", controllers.UserUpdateStatus(deps.Users, logg))
			})

			r.With(middleware.RequireRoles(logg, enums.UserRoleAdmin)).
				Get("/audit-logs", controllers.AuditLogList(deps.Audit, logg))

			r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))
		})
	})

	return r
}
