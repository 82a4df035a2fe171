package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cart-discount-service/internal/config"
	"cart-discount-service/internal/database"
	"cart-discount-service/internal/handlers"
	"cart-discount-service/internal/logger"
	"cart-discount-service/internal/repositories"
	"cart-discount-service/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	store, closeStore := setupStore(cfg, zlog)
	defer closeStore()

	locker := setupLocker(cfg, zlog)

	publisher := setupPublisher(cfg, zlog)
	defer publisher.Close()

	catalog, err := setupCatalog(cfg)
	if err != nil {
		zlog.Fatal("Failed to load catalog", zap.Error(err))
	}

	cartService := services.NewCartService(store, locker, publisher, catalog, zlog)
	router := handlers.NewRouter(cartService, zlog, handlers.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("addr", serverAddr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// setupStore connects to the configured database and applies migrations.
// Without a database the service keeps running on a seeded memory store.
func setupStore(cfg *config.Config, zlog *zap.Logger) (repositories.Store, func()) {
	db, err := database.NewConnection(cfg.Database.Connection())
	if err != nil {
		zlog.Warn("Failed to connect to database, using in-memory demo store", zap.Error(err))

		store := repositories.NewMemoryStore()
		if err := repositories.SeedDemoData(context.Background(), store); err != nil {
			zlog.Fatal("Failed to seed memory store", zap.Error(err))
		}
		return store, func() {}
	}
	zlog.Info("Database connection established", zap.String("driver", db.Driver))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	return repositories.NewSQLStore(db.DB, db.Driver), func() { db.Close() }
}

func setupLocker(cfg *config.Config, zlog *zap.Logger) services.CartLocker {
	client := config.NewRedisClient(cfg.Redis)
	if client == nil {
		if cfg.Redis.Addr != "" {
			zlog.Warn("Redis unavailable, locking carts in-process", zap.String("addr", cfg.Redis.Addr))
		}
		zlog.Info("Cart row locks serialize discount changes across instances")
		return services.NewMemoryLocker()
	}

	zlog.Info("Using Redis cart locks", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.LockTTL))
	return services.NewRedisLocker(client, cfg.Redis.LockTTL, cfg.Redis.LockWait, zlog)
}

func setupPublisher(cfg *config.Config, zlog *zap.Logger) services.EventPublisher {
	if cfg.RabbitMQ.URL == "" {
		return services.NoopPublisher{}
	}

	publisher, err := services.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	if err != nil {
		zlog.Warn("RabbitMQ unavailable, discount events disabled", zap.Error(err))
		return services.NoopPublisher{}
	}

	zlog.Info("Publishing discount events", zap.String("queue", cfg.RabbitMQ.Queue))
	return publisher
}

func setupCatalog(cfg *config.Config) (services.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return services.DefaultCatalog(), nil
	}
	return services.LoadCatalog(cfg.Catalog.Path)
}
