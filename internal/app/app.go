package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/brandcatalog/internal/config"
	"github.com/utafrali/brandcatalog/internal/event"
	handler "github.com/utafrali/brandcatalog/internal/handler/http"
	"github.com/utafrali/brandcatalog/internal/id"
	"github.com/utafrali/brandcatalog/internal/repository"
	"github.com/utafrali/brandcatalog/internal/repository/cache"
	"github.com/utafrali/brandcatalog/internal/repository/memory"
	"github.com/utafrali/brandcatalog/internal/repository/postgres"
	"github.com/utafrali/brandcatalog/internal/seed"
	"github.com/utafrali/brandcatalog/internal/service"
	"github.com/utafrali/brandcatalog/pkg/breaker"
	"github.com/utafrali/brandcatalog/pkg/database"
	"github.com/utafrali/brandcatalog/pkg/health"
	pkgkafka "github.com/utafrali/brandcatalog/pkg/kafka"
	"github.com/utafrali/brandcatalog/pkg/middleware"
	"github.com/utafrali/brandcatalog/pkg/tracing"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App is the top-level application container that holds all dependencies.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	tracing    tracing.ShutdownFunc
	service    *service.BrandService
	handler    http.Handler
	httpServer *http.Server
}

// NewApp creates a new application instance, wiring all dependencies.
// tracerShutdown, when non-nil, is called last during Shutdown.
func NewApp(cfg *config.Config, logger *slog.Logger, tracerShutdown tracing.ShutdownFunc) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	a := &App{cfg: cfg, logger: logger, tracing: tracerShutdown}
	if err := a.wire(ctx); err != nil {
		// Release whatever was opened before the failure.
		if shutdownErr := a.Shutdown(); shutdownErr != nil {
			logger.Error("cleanup after failed startup", slog.String("error", shutdownErr.Error()))
		}
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := health.NewHandler()

	ids, err := id.ForStrategy(cfg.IDStrategy)
	if err != nil {
		return fmt.Errorf("id strategy: %w", err)
	}

	var repo repository.BrandRepository
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pgRepo, err := a.openPostgres(ctx, reg, ids)
		if err != nil {
			return err
		}
		checks.Register("postgres", pgRepo.Ping)
		repo = pgRepo
	default:
		memRepo := memory.NewBrandRepository(ids, nil)
		checks.Register("memory", memRepo.Ping)
		repo = memRepo
	}

	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		rc := cache.NewRedisCache(client)
		checks.Register("redis", rc.Ping)
		repo = cache.NewBrandRepository(repo, rc, cfg.CacheTTL(), cache.NewMetrics(reg, config.ServiceName), logger)
		logger.Info("brand cache enabled", slog.String("addr", cfg.Redis().Addr()))
	}

	var events event.Publisher
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(
			pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers),
			pkgkafka.NewProducerMetrics(reg, config.ServiceName),
			logger,
		)
		checks.Register("kafka", a.producer.Ping)
		events = event.NewProducer(a.producer, logger)
	}

	a.service = service.NewBrandService(repo, events, logger)

	if cfg.SeedEnabled {
		fixtures, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed fixtures: %w", err)
		}
		if _, err := seed.Run(ctx, a.service, fixtures, logger); err != nil {
			return fmt.Errorf("seed brands: %w", err)
		}
	}

	a.handler = handler.NewRouter(handler.RouterConfig{
		BrandService:      a.service,
		Health:            checks,
		Metrics:           middleware.NewHTTPMetrics(reg, config.ServiceName),
		Gatherer:          reg,
		CORS:              cfg.CORS(),
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		RequestTimeout:    cfg.RequestTimeout(),
		SlowRequest:       cfg.SlowRequest(),
		CacheMaxAge:       cfg.HTTPCacheMaxAge(),
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		Logger:            logger,
	})

	a.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort)),
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *App) openPostgres(ctx context.Context, reg prometheus.Registerer, ids id.Generator) (*postgres.BrandRepository, error) {
	pgCfg := a.cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), a.logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := database.RegisterPoolMetrics(reg, pool, config.ServiceName); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}
	database.SetSlowQueryLogging(a.cfg.SlowQuery(), a.logger)

	bcfg := a.cfg.Breaker()
	bcfg.IsSuccessful = postgres.IsSuccessful
	cb := breaker.New(bcfg, reg, a.logger)

	return postgres.NewBrandRepository(pool, cb, ids, nil), nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("HTTP server starting",
			slog.String("addr", a.httpServer.Addr),
			slog.String("storage", a.cfg.StorageBackend),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			a.logger.Error("server error", slog.String("error", err.Error()))
			if shutdownErr := a.Shutdown(); shutdownErr != nil {
				a.logger.Error("shutdown after server error", slog.String("error", shutdownErr.Error()))
			}
			return err
		}
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the server and releases every client in reverse
// order of creation.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka producer close: %w", err))
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.tracing != nil {
		if err := a.tracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		a.tracing = nil
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.logger.Info("application shutdown complete")
	return nil
}
