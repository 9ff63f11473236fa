package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"venue-wayfinding/internal/common/config"
	"venue-wayfinding/internal/common/logging"
	"venue-wayfinding/internal/common/middleware"
	"venue-wayfinding/internal/wayfinding/cache"
	"venue-wayfinding/internal/wayfinding/handlers"
	"venue-wayfinding/internal/wayfinding/repository"
)

// ============================================================
// Wayfinding Service
// ============================================================

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	tunables, err := config.LoadTunables(cfg.TunablesPath)
	if err != nil {
		logger.Fatal("load tunables", "err", err)
	}
	eng, err := tunables.Engine(logger)
	if err != nil {
		logger.Fatal("build engine", "err", err)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open db", "err", err)
	}
	defer db.Close()

	repo := repository.New(db, logger)
	if err := repo.Init(context.Background()); err != nil {
		logger.Fatal("init db", "err", err)
	}

	routes := cache.NewRoutes(newCache(cfg, logger), cfg.RouteCacheTTL)
	defer routes.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		AppName:      "Wayfinding Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Venue & Route Routes
	// ============================================================

	handlers.NewVenueHandler(repo, eng, routes, logger).Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting wayfinding service", "addr", addr, "env", cfg.Environment, "db", cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}

// newCache uses Redis when REDIS_ADDR is set and falls back to an in-process
// cache when it is unset or unreachable.
func newCache(cfg *config.Config, logger *log.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, using memory cache", "err", err)
		return cache.NewMemoryCache()
	}
	logger.Info("route cache on redis", "addr", cfg.RedisAddr)
	return rc
}
