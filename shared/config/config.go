package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"drone-dashboard/internal/models"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Weather   WeatherConfig   `yaml:"weather"`
	AI        AIConfig        `yaml:"ai"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Events    EventsConfig    `yaml:"events"`
	Schedule  string          `yaml:"schedule"` // refresh schedule, empty disables it
}

type ServerConfig struct {
	Address string `yaml:"address"`
	Mode    string `yaml:"mode"` // gin mode: debug, release or test
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, logfmt or tty
}

type WeatherConfig struct {
	URL             string `yaml:"url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	WindSpeedUnit   string `yaml:"wind_speed_unit"`
	TemperatureUnit string `yaml:"temperature_unit"`
	ForecastDays    int    `yaml:"forecast_days"`
}

type AIConfig struct {
	GeminiAPIKey   string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DashboardConfig struct {
	Cities       []models.Location     `yaml:"cities"`
	Drones       []models.DroneProfile `yaml:"drones"`
	AlertMessage string                `yaml:"alert_message"`
	ForecastDays int                   `yaml:"forecast_days"`
	HourlyPoints int                   `yaml:"hourly_points"`
}

// Catalog returns the configured cities and drones.
func (d DashboardConfig) Catalog() models.Catalog {
	return models.Catalog{Cities: d.Cities, Drones: d.Drones}
}

type EventsConfig struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
	Stream        string `yaml:"stream"`
}

// Load reads the file named by CONFIG_FILE (config.yaml by default).
func Load() (*Config, error) {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	return LoadFile(configFile)
}

// LoadFile reads configuration from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Events.RedisAddr == "" {
		cfg.Events.RedisAddr = os.Getenv("REDIS_ADDR")
	}
	if cfg.Events.RedisPassword == "" {
		cfg.Events.RedisPassword = os.Getenv("REDIS_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "tty"
	}

	if c.Weather.URL == "" {
		c.Weather.URL = "https://api.open-meteo.com/v1/forecast"
	}
	if c.Weather.TimeoutSeconds == 0 {
		c.Weather.TimeoutSeconds = 30
	}
	if c.Weather.WindSpeedUnit == "" {
		c.Weather.WindSpeedUnit = "ms" // drone limits are in m/s
	}
	if c.Weather.TemperatureUnit == "" {
		c.Weather.TemperatureUnit = "celsius"
	}
	if c.Weather.ForecastDays == 0 {
		c.Weather.ForecastDays = 7
	}

	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 60
	}

	defaults := models.DefaultCatalog()
	if len(c.Dashboard.Cities) == 0 {
		c.Dashboard.Cities = defaults.Cities
	}
	if len(c.Dashboard.Drones) == 0 {
		c.Dashboard.Drones = defaults.Drones
	}
	if c.Dashboard.AlertMessage == "" {
		c.Dashboard.AlertMessage = "Remember to check the wind before flying."
	}
	if c.Dashboard.ForecastDays == 0 {
		c.Dashboard.ForecastDays = 5
	}
	if c.Dashboard.HourlyPoints == 0 {
		c.Dashboard.HourlyPoints = 24
	}

	if c.Events.Stream == "" {
		c.Events.Stream = "weather_snapshots"
	}
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if len(c.Dashboard.Cities) == 0 {
		return fmt.Errorf("at least one city must be configured (dashboard.cities)")
	}
	seen := make(map[string]bool, len(c.Dashboard.Cities))
	for _, city := range c.Dashboard.Cities {
		if strings.TrimSpace(city.Name) == "" {
			return fmt.Errorf("city name is required (dashboard.cities)")
		}
		if seen[city.Name] {
			return fmt.Errorf("duplicate city %q (dashboard.cities)", city.Name)
		}
		seen[city.Name] = true
		if city.Latitude < -90 || city.Latitude > 90 {
			return fmt.Errorf("city %s latitude must be between -90 and 90", city.Name)
		}
		if city.Longitude < -180 || city.Longitude > 180 {
			return fmt.Errorf("city %s longitude must be between -180 and 180", city.Name)
		}
	}
	for _, drone := range c.Dashboard.Drones {
		if drone.Name == "" {
			return fmt.Errorf("drone name is required (dashboard.drones)")
		}
		if drone.MaxWind <= 0 {
			return fmt.Errorf("drone %s max_wind must be positive", drone.Name)
		}
	}
	if c.Dashboard.ForecastDays < 0 || c.Dashboard.HourlyPoints < 0 {
		return fmt.Errorf("dashboard.forecast_days and dashboard.hourly_points cannot be negative")
	}
	if c.Weather.TimeoutSeconds < 0 || c.AI.TimeoutSeconds < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
		}
	}
	return nil
}
