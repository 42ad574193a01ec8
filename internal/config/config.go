package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	SpoonacularAPIKey     string   `json:"spoonacular_api_key"`
	SpoonacularURL        string   `json:"spoonacular_url"`
	SpoonacularImageURL   string   `json:"spoonacular_image_url"`
	ListenAddr            string   `json:"listen_addr"`
	AllowedOrigins        []string `json:"allowed_origins"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds"`
	ThumbnailWidth        uint     `json:"thumbnail_width"`
	SessionTTLMinutes     int      `json:"session_ttl_minutes"`
	LogLevel              string   `json:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		SpoonacularURL:        "https://api.spoonacular.com",
		SpoonacularImageURL:   "https://img.spoonacular.com/recipes",
		ListenAddr:            ":8080",
		AllowedOrigins:        []string{"http://localhost:8080"},
		RequestTimeoutSeconds: 10,
		ThumbnailWidth:        312,
		SessionTTLMinutes:     30,
		LogLevel:              "info",
	}
}

// Load builds the configuration from defaults, an optional .env file, an optional
// JSON file at path and finally the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPOONACULAR_API_KEY"); v != "" {
		c.SpoonacularAPIKey = v
	}
	if v := os.Getenv("SPOONACULAR_URL"); v != "" {
		c.SpoonacularURL = v
	}
	if v := os.Getenv("SPOONACULAR_IMAGE_URL"); v != "" {
		c.SpoonacularImageURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
}

// Validate reports the first missing or invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SpoonacularAPIKey) == "" {
		return fmt.Errorf("SPOONACULAR_API_KEY not set")
	}
	if c.SpoonacularURL == "" {
		return fmt.Errorf("spoonacular_url must not be empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("session_ttl_minutes must be positive, got %d", c.SessionTTLMinutes)
	}
	return nil
}

// RequestTimeout bounds every upstream call.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionTTL is how long an idle browser session keeps its screen state.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
