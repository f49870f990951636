package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/inventory-api/internal/config"
	"github.com/rogerio-castellano/inventory-api/internal/db"
	api "github.com/rogerio-castellano/inventory-api/internal/http"
	"github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-api/internal/logger"
	"github.com/rogerio-castellano/inventory-api/internal/redissvc"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
)

// @title Inventory API
// @version 1.0
// @description REST API for listing, inserting, updating and deleting inventory products.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logger configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	healthChecks := map[string]handlers.HealthChecker{}

	var productRepo repo.ProductRepository
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		productRepo = repo.NewInMemoryProductRepository()
	default:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		defer closeDB(database, log)

		if cfg.DBAutoMigrate {
			if err := db.Migrate(ctx, database, log); err != nil {
				return err
			}
		}
		healthChecks["database"] = handlers.PingFunc(database.PingContext)
		productRepo = repo.NewPostgresProductRepository(database)
	}

	if cfg.RedisAddr != "" {
		redisService, err := redissvc.NewRedisService(ctx, redissvc.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redisService.Close()

		healthChecks["redis"] = redisService
		productRepo = repo.NewCachedProductRepository(productRepo, redisService.Rdb(), cfg.CacheTTL, log)
		log.Info("product cache enabled", slog.String("redis", cfg.RedisAddr), slog.Duration("ttl", cfg.CacheTTL))
	}

	var limiter *rl.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
	}

	router := api.NewRouter(handlers.NewServer(productRepo, log), api.RouterOptions{
		BasePath:           cfg.HTTPBasePath,
		Swagger:            cfg.HTTPSwagger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:            limiter,
		HealthChecks:       healthChecks,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", cfg.HTTPAddr), slog.String("base_path", cfg.HTTPBasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func closeDB(database *sql.DB, log *slog.Logger) {
	if err := database.Close(); err != nil {
		log.Warn("closing database", slog.Any("error", err))
	}
}
