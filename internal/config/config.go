// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	defaultDBPassword = "changeme"
	devJWTSecret      = "dev-secret-change-me"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Storage backend: "postgres" or "memory"
	StoreDriver string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey holds sessions and revoked tokens. An empty host disables both.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Token signing
	JWTSecret string
	JWTTTL    time.Duration

	// Browser origins allowed to call the API with credentials
	CORSOrigins []string
}

// Load reads an optional .env file from the working directory, then the
// environment, applying development defaults where appropriate. Variables
// already set in the environment win over the file. Returns an error if
// critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", DriverPostgres)),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "blogapi"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "blogapi"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "*")),
	}

	ttl, err := time.ParseDuration(envOrDefault("JWT_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be a positive duration, got %q", os.Getenv("JWT_TTL"))
	}
	cfg.JWTTTL = ttl

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.StoreDriver)
	}

	if cfg.Env == "production" {
		if cfg.StoreDriver == DriverPostgres && cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// RedisAddr returns the Valkey address, or "" when Valkey is disabled.
func (c *Config) RedisAddr() string {
	if c.ValkeyHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
