package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/creditbook/internal/adapter/http/handler"
	"github.com/iho/creditbook/internal/adapter/http/middleware"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger zerolog.Logger

	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	CustomerHandler *handler.CustomerHandler
	ProductHandler  *handler.ProductHandler
	LedgerHandler   *handler.LedgerHandler
	ReportHandler   *handler.ReportHandler

	// TokenVerifier authenticates /api/v1 requests. When it is nil every
	// request runs as DevOperator instead.
	TokenVerifier middleware.TokenVerifier
	DevOperator   *domain.Operator

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
			} else {
				r.Use(middleware.StaticOperator(cfg.DevOperator))
			}

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Post("/", cfg.CustomerHandler.Create)
				r.Get("/", cfg.CustomerHandler.List)
				r.Get("/{id}", cfg.CustomerHandler.Get)
				r.Put("/{id}", cfg.CustomerHandler.Update)
				r.Delete("/{id}", cfg.CustomerHandler.Delete)
				r.Get("/{id}/details", cfg.CustomerHandler.Details)
				r.Get("/{id}/qrcode", cfg.CustomerHandler.QRCode)
			})
			r.Post("/scan", cfg.CustomerHandler.Scan)

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Post("/", cfg.ProductHandler.Create)
				r.Get("/", cfg.ProductHandler.List)
				r.Get("/{id}", cfg.ProductHandler.Get)
				r.Put("/{id}", cfg.ProductHandler.Update)
				r.Delete("/{id}", cfg.ProductHandler.Delete)
			})

			// Ledger
			r.Post("/sales", cfg.LedgerHandler.RecordSale)
			r.Post("/payments", cfg.LedgerHandler.RecordPayment)

			// Read-side projections
			r.Get("/receipts/{kind}/{id}", cfg.ReportHandler.Receipt)
			r.Get("/dashboard", cfg.ReportHandler.Dashboard)
			r.Get("/reconciliation", cfg.ReportHandler.ReconciliationReport)
			r.Get("/reconciliation/{id}", cfg.ReportHandler.ReconcileCustomer)
		})
	})

	return r
}
