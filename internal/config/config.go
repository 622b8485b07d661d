package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Recent-search storage backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	HTTPTimeout        time.Duration

	// RefreshInterval controls how often the active location is re-fetched (0 = never).
	RefreshInterval time.Duration

	// DisplayTimezone is used for every formatted time.
	DisplayTimezone *time.Location

	// Home address geocoded when the viewer does not supply coordinates.
	HomeCity       string
	HomeCountry    string
	GeocoderAPIKey string

	// Recent-search persistence.
	RecentStore string
	SQLitePath  string
	RedisURL    string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	tz, err := loadTimezone(os.Getenv("DISPLAY_TIMEZONE"))
	if err != nil {
		return nil, err
	}
	cfg.DisplayTimezone = tz

	cfg.HomeCity = os.Getenv("HOME_CITY")
	cfg.HomeCountry = os.Getenv("HOME_COUNTRY")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.RecentStore = strings.ToLower(getenvDefault("RECENT_STORE", StoreMemory))
	switch cfg.RecentStore {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return nil, fmt.Errorf("invalid RECENT_STORE %q: want memory, sqlite or redis", cfg.RecentStore)
	}
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "recent_searches.db")
	cfg.RedisURL = getenvDefault("REDIS_URL", "redis://localhost:6379/0")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	return tz, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
