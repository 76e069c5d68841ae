package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ketanjain7981/shop-savy/pkg/health"
	"github.com/ketanjain7981/shop-savy/pkg/middleware"

	"github.com/ketanjain7981/shop-savy/internal/engine"
	"github.com/ketanjain7981/shop-savy/internal/tools"
)

// rankedViewMaxAge is how long trending/deals responses may be cached, in
// seconds.
const rankedViewMaxAge = 60

// NewRouter creates a chi router with all query engine routes registered.
func NewRouter(
	querySvc *engine.Service,
	registry *tools.Registry,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("query-engine"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	productHandler := NewProductHandler(querySvc, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/search", productHandler.SearchProducts)
		r.Get("/filter", productHandler.FilterProducts)
		r.Get("/recommendations", productHandler.GetRecommendations)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(rankedViewMaxAge))
			r.Get("/trending", productHandler.GetTrending)
			r.Get("/deals", productHandler.GetDeals)
		})

		r.Get("/{id}", productHandler.GetProduct)
	})

	r.Get("/api/v1/categories", productHandler.ListCategories)
	r.Get("/api/v1/brands", productHandler.ListBrands)

	toolsHandler := NewToolsHandler(registry, logger)

	r.Route("/api/v1/tools", func(r chi.Router) {
		r.Get("/", toolsHandler.ListTools)
		r.Post("/{name}", toolsHandler.Invoke)
	})

	return r
}
