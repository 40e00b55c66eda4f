package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/just-nibble/versioncontrol/pkg/validator"
)

type Config struct {
	Database DatabaseConfig
	HTTPAddr string `validate:"required"`
	Log      LogConfig
	NATS     NATSConfig
	// DefaultBackend is used for repositories created without a vcs.
	DefaultBackend string `validate:"required"`
}

type DatabaseConfig struct {
	Driver       string `validate:"oneof=postgres sqlite"`
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	Tracing      bool
}

type LogConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// DSN returns the driver specific connection string.
func (c DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "password"),
			Name:         getEnv("DB_NAME", "versioncontrol"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			SQLitePath:   getEnv("SQLITE_PATH", "versioncontrol.sqlite"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			Tracing:      getEnvAsBool("DB_TRACING", false),
		},
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "versioncontrol"),
		},
		DefaultBackend: getEnv("DEFAULT_BACKEND", "git"),
	}

	if err := validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", validator.Message(err))
	}
	return cfg, nil
}

// Helper function to fetch environment variables with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return fallback
}
