package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/creditbook/internal/adapter/http"
	"github.com/iho/creditbook/internal/adapter/http/handler"
	apimiddleware "github.com/iho/creditbook/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/creditbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditbook/internal/adapter/repository/redis"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/infrastructure/auth"
	"github.com/iho/creditbook/internal/infrastructure/config"
	"github.com/iho/creditbook/internal/infrastructure/logger"
	"github.com/iho/creditbook/internal/infrastructure/metrics"
	"github.com/iho/creditbook/internal/infrastructure/postgres"
	"github.com/iho/creditbook/internal/infrastructure/qrcode"
	"github.com/iho/creditbook/internal/infrastructure/redis"
	"github.com/iho/creditbook/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Run migrations before the pool sees the schema
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool).WithLockTimeout(cfg.LockTimeout)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository()
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, customerRepo, productRepo, transactionRepo, paymentRepo, auditRepo, idGen, logger).
		WithRetrier(postgresRepo.NewRetrier(logger).WithObserver(appMetrics)).
		WithMetrics(appMetrics)
	customerUC := usecase.NewCustomerUseCase(txManager, customerRepo, transactionRepo, paymentRepo, auditRepo, idGen, logger)
	productUC := usecase.NewProductUseCase(txManager, productRepo, auditRepo, idGen, logger)
	receiptUC := usecase.NewReceiptUseCase(customerRepo, productRepo, transactionRepo, paymentRepo, usecase.ShopInfo{
		ShopName: cfg.ShopName,
		AppName:  cfg.AppName,
	})
	dashboardUC := usecase.NewDashboardUseCase(customerRepo, productRepo, transactionRepo, paymentRepo, loc)
	reconcileUC := usecase.NewReconciliationUseCase(txManager, customerRepo, transactionRepo, paymentRepo)
	qrUC := usecase.NewQRCodeUseCase(customerRepo, qrcode.NewRenderer(cfg.QRCodeSize), cache, logger)
	authUC := usecase.NewAuthUseCase(jwtManager, logger, buildCredentials(cfg)...)

	// Create router
	routerCfg := httpAdapter.RouterConfig{
		Logger:           logger,
		HealthHandler:    handler.NewHealthHandler(pool, handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })),
		AuthHandler:      handler.NewAuthHandler(authUC, appMetrics),
		CustomerHandler:  handler.NewCustomerHandler(customerUC, qrUC),
		ProductHandler:   handler.NewProductHandler(productUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		ReportHandler:    handler.NewReportHandler(receiptUC, dashboardUC, reconcileUC, loc),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithObserver(appMetrics),
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = jwtManager
	} else {
		routerCfg.DevOperator = devOperator(cfg)
		logger.Warn().Msg("authentication disabled; every request runs as admin")
	}

	server := newHTTPServer(cfg, httpAdapter.NewRouter(routerCfg))

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// buildCredentials lists the configured logins. Entries without a hash are
// skipped by the auth use case.
func buildCredentials(cfg *config.Config) []usecase.Credential {
	return []usecase.Credential{
		{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash, Role: domain.RoleAdmin},
		{Username: cfg.OperatorUsername, PasswordHash: cfg.OperatorPasswordHash, Role: domain.RoleOperator},
		{Username: cfg.ViewerUsername, PasswordHash: cfg.ViewerPasswordHash, Role: domain.RoleViewer},
	}
}

// devOperator is the operator injected when authentication is off.
func devOperator(cfg *config.Config) *domain.Operator {
	name := cfg.AdminUsername
	if name == "" {
		name = "admin"
	}
	return &domain.Operator{ID: name, Username: name, Role: domain.RoleAdmin}
}
