package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/interfaces/http/middleware"
)

// RouterConfig holds everything the HTTP router needs.
type RouterConfig struct {
	// Version is reported in the X-API-Version header
	Version string

	// CORSAllowedOrigins is the list of allowed CORS origins
	CORSAllowedOrigins []string

	// RequestTimeout bounds /api/v1 requests; zero disables the timeout
	RequestTimeout time.Duration

	// RateLimit configures the per-client limiter; a zero rate disables it
	RateLimit middleware.RateLimiterConfig

	Logger  port.Logger
	Metrics port.Metrics

	// MetricsHandler serves /metrics when set (e.g. promhttp.HandlerFor)
	MetricsHandler http.Handler

	Health   *HealthHandler
	Shipping *ShippingHandler
}

// NewRouter builds the Chi router with the middleware stack and all routes.
//
// Parameters:
//   - cfg: router configuration
//
// Returns:
//   - chi.Router: the configured router
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Order matters! Middleware is executed in the order added.
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-API-Version"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit.RequestedPerSecond > 0 {
		rl := cfg.RateLimit
		if rl.KeyFunc == nil {
			rl.KeyFunc = middleware.ClientIP
		}
		if rl.OnReject == nil {
			rl.OnReject = middleware.RejectedRequestsCounter(cfg.Metrics)
		}
		r.Use(middleware.RateLimiter(rl))
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.APIVersion(cfg.Version))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	// Probes
	r.Get("/health", cfg.Health.Live)
	r.Get("/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Use(middleware.ContentTypeJSON)

		r.Route("/products/{"+ProductIDParam+"}/shipping", cfg.Shipping.Routes)
	})

	return r
}
