// Package server boots every dependency, serves HTTP and gRPC, and tears
// everything down in reverse order on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/controllers"
	appgraphql "github.com/shashiranjanraj/shopfront/app/graphql"
	"github.com/shashiranjanraj/shopfront/app/listeners"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/internal/kernel"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/database"
	"github.com/shashiranjanraj/shopfront/pkg/event"
	"github.com/shashiranjanraj/shopfront/pkg/graphql"
	kgrpc "github.com/shashiranjanraj/shopfront/pkg/grpc"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
	"github.com/shashiranjanraj/shopfront/pkg/workerpool"
	"github.com/shashiranjanraj/shopfront/pkg/ws"

	_ "github.com/shashiranjanraj/shopfront/database/migrations"
)

const shutdownTimeout = 15 * time.Second

// Dependencies are the infrastructure pieces the application is built on.
type Dependencies struct {
	DB    *gorm.DB
	Cache cache.Store
	Disks *storage.Manager
	Pool  *workerpool.Pool
	Bus   *event.Bus
	Hub   *ws.Hub
}

// Build wires repositories, services, listeners and controllers on top of
// deps. It starts nothing.
func Build(deps Dependencies) (*controllers.Set, error) {
	userRepo := repositories.NewUserRepository(deps.DB)
	productRepo := repositories.NewProductRepository(deps.DB)

	photos := services.NewPhotoService(productRepo, deps.Disks, deps.Pool, deps.Cache)
	catalog := services.NewCatalogService(repositories.NewCategoryRepository(deps.DB), productRepo, deps.Cache, photos)
	carts := services.NewCartService(repositories.NewCartRepository(deps.DB), productRepo, deps.Bus)

	listeners.Register(deps.Bus, carts, deps.Hub)

	schema, err := appgraphql.NewSchema(catalog, carts)
	if err != nil {
		return nil, fmt.Errorf("server: graphql schema: %w", err)
	}

	return controllers.New(controllers.Deps{
		Auth:     services.NewAuthService(userRepo, deps.Cache),
		Users:    services.NewUserService(userRepo),
		Catalog:  catalog,
		Photos:   photos,
		Feedback: services.NewFeedbackService(productRepo, repositories.NewRatingRepository(deps.DB), repositories.NewReviewRepository(deps.DB), deps.Cache),
		Carts:    carts,
		Hub:      deps.Hub,
		GraphQL:  graphql.Handler(schema),
		Probes: map[string]controllers.Probe{
			"database": func(ctx context.Context) error {
				sqlDB, err := deps.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"cache": func(ctx context.Context) error {
				_, err := deps.Cache.Has(ctx, "health")
				return err
			},
		},
	}), nil
}

// Start runs until ctx is cancelled or a termination signal arrives.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("server: mongo log sink disabled", "error", err)
		}
		defer closeLogs()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("server: close database", "error", err)
		}
	}()
	if err := migration.New(database.DB).WithOutput(io.Discard).Run(); err != nil {
		return err
	}

	store, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("server: using in-memory cache", "error", err)
	}

	disks, err := storage.Connect(ctx)
	if err != nil {
		return err
	}

	pool := workerpool.New(config.UploadWorkers())
	defer pool.Shutdown()

	bus := event.New()
	defer bus.Flush()

	hub := ws.NewHub()
	go hub.Run(ctx)

	set, err := Build(Dependencies{DB: database.DB, Cache: store, Disks: disks, Pool: pool, Bus: bus, Hub: hub})
	if err != nil {
		return err
	}

	opts := kernel.Options{CORS: middleware.CORSFromList(config.CORSOrigins())}
	if local, ok := disks.Default().(*storage.LocalDisk); ok {
		opts.StorageRoot = local.Root()
	}
	httpKernel := kernel.NewHTTPKernel(set, opts)

	grpcSrv, err := kgrpc.Start(config.GRPCPort(), database.Ping)
	if err != nil {
		logger.Warn("server: grpc disabled", "error", err)
	}
	defer kgrpc.Stop(grpcSrv)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	bus.Wait()
	return nil
}
