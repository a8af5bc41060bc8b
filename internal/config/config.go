package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Storage   StorageConfig   `yaml:"storage"`
	Photos    PhotoConfig     `yaml:"photos"`
	Map       MapConfig       `yaml:"map"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Security  SecurityConfig  `yaml:"security"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP front settings
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Development bool   `yaml:"development"`
}

// BackendConfig points at the REST backend that owns auth and persistence
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig selects the durable local storage
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`
}

// PhotoConfig contains event photo upload settings
type PhotoConfig struct {
	UploadDir    string   `yaml:"upload_dir"`
	BaseURL      string   `yaml:"base_url"`
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// MapConfig contains map rendering settings
type MapConfig struct {
	DefaultLat         float64 `yaml:"default_lat"`
	DefaultLng         float64 `yaml:"default_lng"`
	RegionLat          float64 `yaml:"region_lat"`
	RegionLng          float64 `yaml:"region_lng"`
	RegionZoom         int     `yaml:"region_zoom"`
	LocatedZoom        int     `yaml:"located_zoom"`
	ProjectionScale    float64 `yaml:"projection_scale"`
	JitterDegrees      float64 `yaml:"jitter_degrees"`
	MaxPins            int     `yaml:"max_pins"`
	GeolocationSeconds int     `yaml:"geolocation_timeout_seconds"`
	TileURL            string  `yaml:"tile_url"`
	Attribution        string  `yaml:"attribution"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RefreshEvents string `yaml:"refresh_events"`
	PurgeSession  string `yaml:"purge_session"`
}

// SecurityConfig contains front hardening settings
type SecurityConfig struct {
	AuthRateLimit string `yaml:"auth_rate_limit"` // e.g. "10-M"; empty disables
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applying env overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Backend
	if val := os.Getenv("API_BASE"); val != "" {
		c.Backend.BaseURL = val
	}
	if val := os.Getenv("API_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Backend.TimeoutSeconds)
	}

	// Storage
	if val := os.Getenv("STORAGE_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("STORAGE_DSN"); val != "" {
		c.Storage.DSN = val
	}

	// Photos
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Photos.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 15
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.DSN == "" && c.Storage.Driver == "sqlite" {
		c.Storage.DSN = "file:handsaround.db?_pragma=busy_timeout(5000)"
	}
	if c.Photos.UploadDir == "" {
		c.Photos.UploadDir = "./uploads"
	}
	if c.Photos.BaseURL == "" {
		c.Photos.BaseURL = "/photos"
	}
	if c.Photos.MaxFileSize == 0 {
		c.Photos.MaxFileSize = 5
	}
	if len(c.Photos.AllowedTypes) == 0 {
		c.Photos.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}
	}

	// Map defaults: user fallback is New Delhi, region fallback is the center of India
	if c.Map.DefaultLat == 0 && c.Map.DefaultLng == 0 {
		c.Map.DefaultLat, c.Map.DefaultLng = 28.6139, 77.2090
	}
	if c.Map.RegionLat == 0 && c.Map.RegionLng == 0 {
		c.Map.RegionLat, c.Map.RegionLng = 20.5937, 78.9629
	}
	if c.Map.RegionZoom == 0 {
		c.Map.RegionZoom = 5
	}
	if c.Map.LocatedZoom == 0 {
		c.Map.LocatedZoom = 16
	}
	if c.Map.ProjectionScale == 0 {
		c.Map.ProjectionScale = 500
	}
	if c.Map.JitterDegrees == 0 {
		c.Map.JitterDegrees = 0.1
	}
	if c.Map.MaxPins == 0 {
		c.Map.MaxPins = 10
	}
	if c.Map.GeolocationSeconds == 0 {
		c.Map.GeolocationSeconds = 10
	}
	if c.Map.TileURL == "" {
		c.Map.TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if c.Map.Attribution == "" {
		c.Map.Attribution = "© OpenStreetMap contributors"
	}

	if c.Scheduler.RefreshEvents == "" {
		c.Scheduler.RefreshEvents = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.PurgeSession == "" {
		c.Scheduler.PurgeSession = "30 * * * * *" // every minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base URL must be http or https: %s", c.Backend.BaseURL)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid backend timeout: %d", c.Backend.TimeoutSeconds)
	}

	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage DSN is required")
	}

	if c.Photos.MaxFileSize < 0 {
		return fmt.Errorf("invalid max photo size: %d", c.Photos.MaxFileSize)
	}

	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 || c.Map.RegionLat < -90 || c.Map.RegionLat > 90 {
		return fmt.Errorf("map latitudes must be within [-90, 90]")
	}
	if c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 || c.Map.RegionLng < -180 || c.Map.RegionLng > 180 {
		return fmt.Errorf("map longitudes must be within [-180, 180]")
	}
	if c.Map.ProjectionScale < 0 {
		return fmt.Errorf("invalid projection scale: %v", c.Map.ProjectionScale)
	}

	return nil
}

// GetServerAddress returns the HTTP front address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// BackendTimeout returns the per-request backend timeout
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// GeolocationTimeout returns how long to wait for a device position
func (c *Config) GeolocationTimeout() time.Duration {
	return time.Duration(c.Map.GeolocationSeconds) * time.Second
}

// MaxPhotoBytes returns the upload limit in bytes
func (c *Config) MaxPhotoBytes() int64 {
	return c.Photos.MaxFileSize << 20
}
