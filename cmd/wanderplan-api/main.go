// README: Entry point; loads config, wires services, starts the HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"wanderplan/internal/ai"
	"wanderplan/internal/config"
	httptransport "wanderplan/internal/http"
	"wanderplan/internal/http/middleware"
	"wanderplan/internal/infra"
	"wanderplan/internal/logger"
	"wanderplan/internal/maps"
	"wanderplan/internal/modules/planner"
	"wanderplan/internal/modules/quota"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AI.APIKey() == "" {
		zl.Warn("no AI credential configured; every generation will fail", zap.String("provider", cfg.AI.Provider))
	}
	gen, closeGen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		return err
	}
	defer closeGen()

	var store planner.Store = planner.NewMemoryStore(cfg.Session.TTL)
	if cfg.Session.RedisAddr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Session.RedisAddr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		store = planner.NewRedisStore(redisClient, cfg.Session.TTL)
		zl.Info("sessions stored in redis", zap.String("addr", cfg.Session.RedisAddr))
	}

	opts := planner.Options{Timeout: cfg.AI.Timeout}
	if cfg.Quota.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.Quota.DSN)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		quotaStore := quota.NewStore(dbPool)
		if err := quotaStore.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.Quota = quota.NewService(quotaStore, cfg.Quota.Monthly)
		zl.Info("generation quota enabled", zap.Int("monthly", cfg.Quota.Monthly))
	}
	if cfg.Maps.Key != "" {
		places, err := maps.NewDestinationService(cfg.Maps.Key)
		if err != nil {
			return err
		}
		opts.Places = places
	}

	plannerSvc := planner.NewService(store, gen, zl, opts)
	defer plannerSvc.Close()

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Planner: plannerSvc,
		MapsKey: cfg.Maps.Key,
		Log:     zl,
		Limiter: middleware.NewRateLimiter(cfg.HTTP.RatePerMin),
	})
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("provider", cfg.AI.Provider))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zl.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
