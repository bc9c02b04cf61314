package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Storage  string `yaml:"storage"`

	DatabaseURL string `yaml:"database_url"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisStream   string `yaml:"redis_stream"`

	WebhookURL    string `yaml:"webhook_url"`
	WebhookSecret string `yaml:"webhook_secret"`

	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	DispatchWorkers     int `yaml:"dispatch_workers"`
	DispatchQueue       int `yaml:"dispatch_queue"`
	DispatchMaxAttempts int `yaml:"dispatch_max_attempts"`

	AcceptRateLimit         int `yaml:"accept_rate_limit"`
	AcceptRateWindowSeconds int `yaml:"accept_rate_window_seconds"`

	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
}

func Default() Config {
	return Config{
		Port:                    "8080",
		LogLevel:                "info",
		Storage:                 StoragePostgres,
		RedisStream:             "booking-events",
		JWTSecret:               "dev-secret-change",
		JWTIssuer:               "hr-service",
		DispatchWorkers:         2,
		DispatchQueue:           256,
		DispatchMaxAttempts:     5,
		AcceptRateLimit:         20,
		AcceptRateWindowSeconds: 60,
		ShutdownTimeoutSeconds:  10,
	}
}

// Load builds the config from defaults, an optional YAML file and the environment.
// A .env file, if present, is loaded first. path falls back to CONFIG_FILE.
func Load(path string) (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Storage = strings.ToLower(getEnv("STORAGE", c.Storage))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisStream = getEnv("REDIS_STREAM", c.RedisStream)
	c.WebhookURL = getEnv("WEBHOOK_URL", c.WebhookURL)
	c.WebhookSecret = getEnv("WEBHOOK_SECRET", c.WebhookSecret)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.DispatchWorkers = getEnvInt("DISPATCH_WORKERS", c.DispatchWorkers)
	c.DispatchQueue = getEnvInt("DISPATCH_QUEUE", c.DispatchQueue)
	c.DispatchMaxAttempts = getEnvInt("DISPATCH_MAX_ATTEMPTS", c.DispatchMaxAttempts)
	c.AcceptRateLimit = getEnvInt("ACCEPT_RATE_LIMIT", c.AcceptRateLimit)
	c.AcceptRateWindowSeconds = getEnvInt("ACCEPT_RATE_WINDOW_SECONDS", c.AcceptRateWindowSeconds)
	c.ShutdownTimeoutSeconds = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", c.ShutdownTimeoutSeconds)
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.WebhookURL != "" && c.WebhookSecret == "" {
		errs = append(errs, errors.New("WEBHOOK_SECRET is required when WEBHOOK_URL is set"))
	}
	if c.DispatchWorkers <= 0 {
		errs = append(errs, errors.New("DISPATCH_WORKERS must be positive"))
	}
	if c.DispatchQueue <= 0 {
		errs = append(errs, errors.New("DISPATCH_QUEUE must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) AcceptRateWindow() time.Duration {
	return time.Duration(c.AcceptRateWindowSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
