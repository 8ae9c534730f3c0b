package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/chart"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l := logger.New(cfg.AppName, cfg.LogLevel)
	defer func() { _ = l.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Row store behind a circuit breaker.
	rowStore, closeStore, err := store.New(ctx, storeOptions(cfg))
	if err != nil {
		l.Fatal("failed to open row store", map[string]any{"driver": cfg.DB.Driver, "error": err.Error()})
	}
	defer func() { _ = closeStore() }()

	// The classifier is loaded once and shared by every forecast request.
	model, err := forecast.LoadForest(cfg.ModelPath)
	if err != nil {
		l.Fatal("failed to load forecasting model", map[string]any{"path": cfg.ModelPath, "error": err.Error()})
	}
	predictor := forecast.NewPredictor(model, l)

	service := weather.NewService(rowStore, l)
	board, err := dashboard.New(
		service,
		chart.NewGenerator(chart.DefaultTheme()),
		dashboard.Controls{RowCount: cfg.Profile.RowCount, ShowAll: cfg.Profile.ShowAll},
		l,
	)
	if err != nil {
		l.Fatal("failed to build dashboard", map[string]any{"profile": cfg.Profile.Name, "error": err.Error()})
	}

	// Scheduler that periodically recomputes every panel.
	sched := scheduler.New(board, cfg.Interval(), l)
	if err := sched.Start(); err != nil {
		l.Fatal("failed to start scheduler", map[string]any{"error": err.Error()})
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.AppName,
			"store":   rowStore.State(),
		})
	})

	httpapi.RegisterRoutes(app, board, predictor)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	go func() {
		l.Info("http server listening", map[string]any{"port": cfg.Port, "profile": cfg.Profile.Name})
		if err := app.Listen(":" + cfg.Port); err != nil {
			l.Error(err, map[string]any{"msg": "fiber server stopped"})
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		l.Error(err, map[string]any{"msg": "error during shutdown"})
	}
}

func storeOptions(cfg *config.AppConfig) store.Options {
	return store.Options{
		Driver: cfg.DB.Driver,
		DSN:    cfg.DB.DSN,
		Pool: store.PoolConfig{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		},
		AutoMigrate: cfg.DB.AutoMigrate,
		Breaker:     store.BreakerSettings{Timeout: 30 * time.Second},
	}
}
