package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// HTTPTimeout applies to the shared outbound HTTP client. Weather
	// fetches have no timeout of their own; they rely on this.
	HTTPTimeout time.Duration

	// WeatherRefreshInterval controls the periodic snapshot refresh.
	WeatherRefreshInterval time.Duration

	// PresetCity selects a catalog city at startup; empty means current
	// device location.
	PresetCity string

	// DeviceLat/DeviceLon stand in for the device position. Location is
	// authorized only when both are set.
	DeviceLat      float64
	DeviceLon      float64
	DeviceLocSet   bool
	GeocoderAPIKey string

	// Gallery.
	PhotoDir        string
	SettingsDBPath  string
	SlideDuration   time.Duration
	CacheCountLimit int
	CacheByteLimit  int64
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	refreshStr := getenvDefault("WEATHER_REFRESH_INTERVAL", "30m")
	refresh, err := time.ParseDuration(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_REFRESH_INTERVAL: %w", err)
	}
	cfg.WeatherRefreshInterval = refresh

	cfg.PresetCity = os.Getenv("WEATHER_PRESET_CITY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	latStr := os.Getenv("DEVICE_LAT")
	lonStr := os.Getenv("DEVICE_LON")
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEVICE_LAT: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEVICE_LON: %w", err)
		}
		cfg.DeviceLat = lat
		cfg.DeviceLon = lon
		cfg.DeviceLocSet = true
	}

	cfg.PhotoDir = getenvDefault("PHOTO_DIR", "photos")
	cfg.SettingsDBPath = os.Getenv("SETTINGS_DB") // empty = in-memory only

	durStr := getenvDefault("SLIDESHOW_DURATION", "10s")
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SLIDESHOW_DURATION: %w", err)
	}
	cfg.SlideDuration = dur

	cfg.CacheCountLimit = getenvInt("CACHE_COUNT_LIMIT", 50)
	cfg.CacheByteLimit = int64(getenvInt("CACHE_BYTE_LIMIT", 100*1024*1024))

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
