package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/stevelisz/ANiceClock/internal/api/http"
	"github.com/stevelisz/ANiceClock/internal/cache"
	"github.com/stevelisz/ANiceClock/internal/config"
	"github.com/stevelisz/ANiceClock/internal/events"
	"github.com/stevelisz/ANiceClock/internal/gallery"
	"github.com/stevelisz/ANiceClock/internal/location"
	"github.com/stevelisz/ANiceClock/internal/scheduler"
	"github.com/stevelisz/ANiceClock/internal/store"
	"github.com/stevelisz/ANiceClock/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Event bus the presentation layer observes.
	bus := events.NewBus()

	// Settings persistence for the gallery (handle list + duration).
	var settings store.Store
	if cfg.SettingsDBPath != "" {
		sqlStore, err := store.NewSQLite(cfg.SettingsDBPath)
		if err != nil {
			log.Fatalf("failed to open settings store: %v", err)
		}
		settings = sqlStore
	} else {
		settings = store.NewMemoryStore()
	}
	defer settings.Close()

	saved, err := settings.Load()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Fatalf("failed to load settings: %v", err)
	}
	if saved.SlideDuration <= 0 {
		saved.SlideDuration = cfg.SlideDuration
	}

	// Gallery: bounded image cache, local/remote resolver, manager.
	imageCache := cache.NewLRU(cfg.CacheCountLimit, cfg.CacheByteLimit)
	resolver := gallery.NewLibraryResolver(cfg.PhotoDir, httpClient)
	galleryMgr := gallery.NewManager(resolver, imageCache, settings, bus, saved)
	defer galleryMgr.StopTimer()

	// Geolocation collaborators.
	var geo location.Geolocator
	if cfg.DeviceLocSet {
		geo = location.NewStatic(location.Coordinate{Lat: cfg.DeviceLat, Lon: cfg.DeviceLon})
	} else {
		geo = location.NewDenied()
	}

	var rgeo location.ReverseGeocoder
	if g, err := location.NewGoogleGeocoder(cfg.GeocoderAPIKey); err != nil {
		log.Printf("INFO: reverse geocoding disabled: %v", err)
	} else {
		rgeo = g
	}

	// Weather client and periodic refresh.
	weatherClient := weather.NewClient(weather.NewOpenMeteoClient(httpClient), geo, rgeo, bus)
	if cfg.PresetCity != "" {
		if city, ok := weather.FindPresetCity(cfg.PresetCity); ok {
			weatherClient.SelectLocation(weather.SelectCity(city))
		} else {
			log.Printf("WARN: unknown preset city %q, using current location", cfg.PresetCity)
			weatherClient.Refresh()
		}
	} else {
		weatherClient.Refresh()
	}

	sched := scheduler.New(weatherClient, cfg.WeatherRefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "aniceclock",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "aniceclock",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, weatherClient, galleryMgr, bus)

	// Start server with graceful shutdown
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
