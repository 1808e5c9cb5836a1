package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	URL      string `yaml:"-"` // Loaded from environment
}

type OAuthProvider struct {
	Key    string
	Secret string
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Auth struct {
		SessionLifetime time.Duration `yaml:"session_lifetime"`
		TokenLifetime   time.Duration `yaml:"token_lifetime"`
		Google          OAuthProvider `yaml:"-"`
		Discord         OAuthProvider `yaml:"-"`
	} `yaml:"auth"`

	Catalog struct {
		// Path overrides the embedded event catalog when set.
		Path string `yaml:"path"`
	} `yaml:"catalog"`

	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Parse reads the YAML document and fills in defaults. It does not touch
// the environment.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	cfg.App.Name = "decanter"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "decanter.db"
	cfg.Auth.SessionLifetime = 24 * time.Hour
	cfg.Auth.TokenLifetime = time.Hour
	cfg.RateLimit.PerMinute = 60
	cfg.RateLimit.Burst = 10

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	c.Database.URL = os.Getenv("DATABASE_URL")
	c.Auth.Google = OAuthProvider{Key: os.Getenv("GOOGLE_KEY"), Secret: os.Getenv("GOOGLE_SECRET")}
	c.Auth.Discord = OAuthProvider{Key: os.Getenv("DISCORD_KEY"), Secret: os.Getenv("DISCORD_SECRET")}

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		c.App.Port = port
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required")
	}
	if c.IsProduction() && len(c.App.SecretKey) < 32 {
		return fmt.Errorf("APP_SECRET_KEY must be at least 32 bytes in production")
	}
	if c.Auth.SessionLifetime <= 0 || c.Auth.TokenLifetime <= 0 {
		return fmt.Errorf("session and token lifetimes must be positive")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}
