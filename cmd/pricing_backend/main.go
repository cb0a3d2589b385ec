package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kazehost/pricing-backend/internal/adapters/cache"
	"github.com/kazehost/pricing-backend/internal/adapters/exchangerateapi"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	"github.com/kazehost/pricing-backend/internal/core/services"
	"github.com/kazehost/pricing-backend/internal/handlers"
	"github.com/kazehost/pricing-backend/internal/middleware"
	"github.com/kazehost/pricing-backend/internal/repositories/database/pgsql"
	"github.com/kazehost/pricing-backend/internal/scheduler"
	"github.com/kazehost/pricing-backend/internal/utils/clock"
	"github.com/kazehost/pricing-backend/pkg/config"
	"github.com/kazehost/pricing-backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Pricing Backend API
// @version 1.0
// @description Multi-currency pricing and exchange rate API for domain and hosting products.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Legacy currency aliases (e.g. FRW for the Rwandan Franc) are config
	// driven so old stored codes keep resolving.
	for legacy, iso := range cfg.CurrencyAliases {
		domain.RegisterCurrencyAlias(legacy, iso)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	realClock := clock.RealClock{}
	rateClient := exchangerateapi.NewClient(cfg.RateAPIBaseURL, cfg.RateAPIKey, cfg.RateAPITimeout, logger)
	rateCache := newRateCache(cfg, realClock, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, rateClient, rateCache, realClock)

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, newPublicLimiter(cfg, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background sweeper promotes pending prices whose effective date has
	// arrived.
	sweeper := scheduler.NewActivationScheduler(container.Pricing, realClock, cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server exited.")
}

// runMigrations applies all pending "up" migrations using a short-lived
// database/sql connection via the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateCache selects the exchange rate cache backend from config. Redis is
// used when configured so cached rates survive restarts and are shared across
// replicas; the in-process TTL cache is the default.
func newRateCache(cfg *config.Config, clk providers.Clock, logger *slog.Logger) providers.RateCache {
	if cfg.RateCacheBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("Using redis exchange rate cache", slog.String("addr", cfg.RedisAddr))
		return cache.NewRedisRateCache(client)
	}
	return cache.NewMemoryRateCache(clk)
}

// newPublicLimiter builds the per-IP limiter for the public endpoints. An
// unparseable rate disables limiting rather than refusing to boot.
func newPublicLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid rate limit format, public rate limiting disabled", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		return nil
	}
	return limiter.New(limitermem.NewStore(), rate)
}
