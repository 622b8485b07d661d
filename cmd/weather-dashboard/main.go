package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("WARN: OPENWEATHER_API_KEY is not set; provider calls will fail")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	kv, closeKV := openKV(cfg)
	defer closeKV()
	recent := store.NewRecentSearches(kv, time.Now)

	gateway := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)

	var locator weather.Locator = geo.UnavailableLocator{}
	if cfg.HomeCity != "" && cfg.GeocoderAPIKey != "" {
		locator = geo.NewAddressLocator(cfg.GeocoderAPIKey, cfg.HomeCity, cfg.HomeCountry)
	}

	// Core service running fetch cycles.
	service := weather.NewService(gateway, recent, locator, weather.WithTimezone(cfg.DisplayTimezone))

	// Initial load; failures stay visible as the dashboard banner.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := service.Load(loadCtx); err != nil {
		log.Printf("ERROR: initial load failed: %v", err)
	}
	cancelLoad()

	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// openKV selects the recent-search backend. An unreachable persistent
// backend degrades to memory rather than stopping the dashboard.
func openKV(cfg *config.AppConfig) (store.KV, func()) {
	switch cfg.RecentStore {
	case config.StoreSQLite:
		kv, err := store.NewSQLite(cfg.SQLitePath)
		if err == nil {
			return kv, func() { _ = kv.Close() }
		}
		log.Printf("ERROR: sqlite store unavailable, using memory: %v", err)
	case config.StoreRedis:
		kv, err := store.NewRedis(cfg.RedisURL)
		if err == nil {
			return kv, func() { _ = kv.Close() }
		}
		log.Printf("ERROR: redis store unavailable, using memory: %v", err)
	}
	return store.NewMemoryKV(), func() {}
}
