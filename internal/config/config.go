package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPODBaseURL is the public image-of-the-day endpoint.
	DefaultAPODBaseURL = "https://api.nasa.gov/planetary/apod"
	// ArchiveStart is the first date available in the APOD archive.
	ArchiveStart = "1995-06-16"
)

type Config struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	APIKey          string        `yaml:"api_key" validate:"required"`
	APODBaseURL     string        `yaml:"apod_base_url" validate:"required,url"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" validate:"min=0"`
	PlaceholderURL  string        `yaml:"placeholder_url" validate:"required"`
	ModalStylesheet string        `yaml:"modal_stylesheet" validate:"required"`
	StaticDirectory string        `yaml:"static_dir" validate:"required"`
	LogDirectory    string        `yaml:"log_dir" validate:"required"`
	DefaultRange    int           `yaml:"default_range_days" validate:"min=1,max=366"`
	MaxRangeDays    int           `yaml:"max_range_days" validate:"min=1"`
	// AllowedOrigins lists the cross-origin pages that may use /api and /ws;
	// empty means same-origin only and "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// AdminPassword guards the log endpoints; empty leaves them open.
	AdminPassword string `yaml:"admin_password"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Port:            8080,
		APIKey:          "DEMO_KEY",
		APODBaseURL:     DefaultAPODBaseURL,
		FetchTimeout:    30 * time.Second,
		PlaceholderURL:  "/static/img/placeholder.svg",
		ModalStylesheet: "/static/css/modal.css",
		StaticDirectory: "static",
		LogDirectory:    filepath.Join(".", "logs"),
		DefaultRange:    9,
		MaxRangeDays:    366,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, a .env file and the process environment, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.Port = getEnvAsInt("PORT", c.Port)
	c.APIKey = getEnv("APOD_API_KEY", c.APIKey)
	c.APODBaseURL = getEnv("APOD_BASE_URL", c.APODBaseURL)
	c.FetchTimeout = getEnvAsDuration("APOD_TIMEOUT", c.FetchTimeout)
	c.PlaceholderURL = getEnv("PLACEHOLDER_URL", c.PlaceholderURL)
	c.ModalStylesheet = getEnv("MODAL_STYLESHEET", c.ModalStylesheet)
	c.StaticDirectory = getEnv("STATIC_DIR", c.StaticDirectory)
	c.LogDirectory = getEnv("LOG_DIR", c.LogDirectory)
	c.DefaultRange = getEnvAsInt("DEFAULT_RANGE_DAYS", c.DefaultRange)
	c.MaxRangeDays = getEnvAsInt("MAX_RANGE_DAYS", c.MaxRangeDays)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
