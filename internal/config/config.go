package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	Performance PerformanceConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxConns      int
	RunMigrations bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PerformanceConfig tunes the aggregation engine and its scheduled recompute.
type PerformanceConfig struct {
	Workers       int
	StoreTimeout  time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	CronEnabled   bool
	CronDay       int
	CronHour      int
}

func Load() (*Config, error) {
	// A missing .env is fine in containers where the environment is injected.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("Config: no .env file found, using process environment")
	}

	config := &Config{}
	var errs []error

	// Database configuration
	config.Database = DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnvInt("DB_PORT", 5432, &errs),
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		MaxConns:      getEnvInt("DB_MAX_CONNS", 25, &errs),
		RunMigrations: getEnvBool("DB_RUN_MIGRATIONS", true, &errs),
	}

	// Application configuration
	config.App = AppConfig{
		Port:               getEnvInt("APP_PORT", 8080, &errs),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Performance engine configuration
	config.Performance = PerformanceConfig{
		Workers:       getEnvInt("PERFORMANCE_WORKERS", 4, &errs),
		StoreTimeout:  getEnvDuration("PERFORMANCE_STORE_TIMEOUT", 5*time.Second, &errs),
		RetryAttempts: getEnvInt("PERFORMANCE_RETRY_ATTEMPTS", 3, &errs),
		RetryBackoff:  getEnvDuration("PERFORMANCE_RETRY_BACKOFF", 200*time.Millisecond, &errs),
		CronEnabled:   getEnvBool("PERFORMANCE_CRON_ENABLED", true, &errs),
		CronDay:       getEnvInt("PERFORMANCE_CRON_DAY", 1, &errs),
		CronHour:      getEnvInt("PERFORMANCE_CRON_HOUR", 2, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Performance.Workers < 1 {
		return fmt.Errorf("PERFORMANCE_WORKERS must be at least 1")
	}
	if c.Performance.RetryAttempts < 1 {
		return fmt.Errorf("PERFORMANCE_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Performance.StoreTimeout <= 0 {
		return fmt.Errorf("PERFORMANCE_STORE_TIMEOUT must be positive")
	}
	if c.Performance.CronDay < 1 || c.Performance.CronDay > 28 {
		return fmt.Errorf("PERFORMANCE_CRON_DAY must be between 1 and 28")
	}
	if c.Performance.CronHour < 0 || c.Performance.CronHour > 23 {
		return fmt.Errorf("PERFORMANCE_CRON_HOUR must be between 0 and 23")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
