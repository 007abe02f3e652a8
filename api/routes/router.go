package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KrishMoond/eco/api/controllers"
	"github.com/KrishMoond/eco/api/middleware"
	"github.com/KrishMoond/eco/internal/auth"
	"github.com/KrishMoond/eco/internal/cart"
	"github.com/KrishMoond/eco/internal/catalog"
	"github.com/KrishMoond/eco/internal/orders"
	"github.com/KrishMoond/eco/internal/reviews"
	"github.com/KrishMoond/eco/pkg/config"
	"github.com/KrishMoond/eco/pkg/db"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/logger"
	"github.com/KrishMoond/eco/pkg/metrics"
	"github.com/KrishMoond/eco/pkg/redis"
)

// Deps carries everything the router needs. The metrics registry doubles as
// the gatherer behind /metrics.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	AuthService    auth.Service
	CatalogService catalog.Service
	CartService    cart.Service
	OrdersService  orders.Service
	ReviewsService reviews.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var registerer prometheus.Registerer
	if deps.Registry != nil {
		registerer = deps.Registry
	}
	httpMetrics := metrics.NewHTTPMetrics(registerer)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.AuthService, logg))
		r.Post("/login", controllers.Login(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.CatalogService, logg))
		r.Get("/{productId}/reviews", controllers.ProductReviews(deps.ReviewsService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/", controllers.CartAddItem(deps.CartService, logg))
			r.Put("/{productId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/", controllers.OrderCheckout(deps.OrdersService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/stats", controllers.OrderStats(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.OrdersService, logg))
			r.Put("/{orderId}/cancel", controllers.OrderCancel(deps.OrdersService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.ReviewCreate(deps.ReviewsService, logg))
			r.Get("/{reviewId}", controllers.ReviewGet(deps.ReviewsService, logg))
			r.Put("/{reviewId}", controllers.ReviewUpdate(deps.ReviewsService, logg))
			r.Delete("/{reviewId}", controllers.ReviewDelete(deps.ReviewsService, logg))
			r.Post("/{reviewId}/helpful", controllers.ReviewMarkHelpful(deps.ReviewsService, logg))
			r.Post("/{reviewId}/report", controllers.ReviewReport(deps.ReviewsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(deps.CatalogService, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(deps.CatalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.CatalogService, logg))
		})
		r.Put("/orders/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
	})

	return r
}
