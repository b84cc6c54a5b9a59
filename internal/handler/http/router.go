package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/brandcatalog/internal/service"
	"github.com/utafrali/brandcatalog/pkg/health"
	"github.com/utafrali/brandcatalog/pkg/middleware"
)

const defaultRequestTimeout = 30 * time.Second

// RouterConfig carries the dependencies and knobs of the HTTP surface.
type RouterConfig struct {
	BrandService *service.BrandService
	Health       *health.Handler
	// Metrics is nil when request metrics and /metrics are disabled.
	Metrics  *middleware.HTTPMetrics
	Gatherer prometheus.Gatherer

	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
	RequestTimeout    time.Duration
	SlowRequest       time.Duration
	// CacheMaxAge is the Cache-Control max-age of brand reads; 0 sends no-store.
	CacheMaxAge time.Duration
	// RateLimitRPS of 0 disables per-IP rate limiting.
	RateLimitRPS   int
	RateLimitBurst int
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all brand catalog routes registered.
// Brand routes are served under /api/v1/brands and under /brands.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	logger := cfg.Logger

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogging(logger, cfg.SlowRequest))
	r.Use(middleware.RequestLogger(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	// Health check endpoints
	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.LivenessHandler())
		r.Get("/health/ready", cfg.Health.ReadinessHandler())
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Brand API endpoints
	brandHandler := NewBrandHandler(cfg.BrandService, logger)
	brandRoutes := func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		r.Use(middleware.CacheControl(cfg.CacheMaxAge))

		r.Post("/", brandHandler.CreateBrand)
		r.Get("/", brandHandler.ListBrands)

		// Must come before /{id}.
		r.Get("/slug/{slug}", brandHandler.GetBrandBySlug)

		r.Get("/{id}", brandHandler.GetBrand)
		r.Get("/{id}/branches", brandHandler.GetBranches)
		r.Get("/{id}/menus", brandHandler.GetMenus)
		r.Get("/{id}/deals", brandHandler.GetPopularDeals)
		r.Patch("/{id}", brandHandler.UpdateBrand)
		r.Patch("/{id}/follow", brandHandler.FollowBrand)
		r.Patch("/{id}/unfollow", brandHandler.UnfollowBrand)
		r.Delete("/{id}", brandHandler.DeleteBrand)
	}

	r.Route("/api/v1/brands", brandRoutes)
	r.Route("/brands", brandRoutes)

	return r
}
