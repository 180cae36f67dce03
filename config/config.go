// Package config centralizes environment configuration with typed accessors
// and defaults, so every consumer sees the same view of the deployment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	}
	return false
}

// StorageDriver selects the durable-storage adapter for the session state.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"
	StorageFile     StorageDriver = "file"
	StorageRedis    StorageDriver = "redis"
	StoragePostgres StorageDriver = "postgres"
)

type Config struct {
	API     API
	App     App
	Shell   Shell
	Storage Storage
}

type API struct {
	BaseURL string
	Timeout time.Duration
}

type App struct {
	Name           string
	Version        string
	Environment    Environment
	EnableDevTools bool
}

func (a App) IsDev() bool  { return a.Environment == EnvDevelopment }
func (a App) IsProd() bool { return a.Environment == EnvProduction }

type Shell struct {
	Port int
}

type Storage struct {
	Driver StorageDriver

	FilePath   string
	FileSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresURL string
}

// New loads configuration or exits; for mains that have no error channel.
func New() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	var err error

	cfg.API.BaseURL = getEnvString("MARKAP_API_BASE_URL", "http://localhost:3000/api")
	cfg.API.Timeout, err = getEnvDuration("MARKAP_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return cfg, fmt.Errorf("API timeout config error: %w", err)
	}

	cfg.App.Name = getEnvString("MARKAP_APP_NAME", "Markap")
	cfg.App.Version = getEnvString("MARKAP_APP_VERSION", "1.0.0")
	cfg.App.Environment = Environment(getEnvString("MARKAP_APP_ENV", string(EnvDevelopment)))
	if !cfg.App.Environment.IsValid() {
		return cfg, fmt.Errorf("invalid MARKAP_APP_ENV %q", cfg.App.Environment)
	}
	cfg.App.EnableDevTools, err = getEnvBool("MARKAP_ENABLE_DEV_TOOLS", cfg.App.IsDev())
	if err != nil {
		return cfg, fmt.Errorf("dev tools config error: %w", err)
	}

	cfg.Shell.Port, err = getEnvInt("MARKAP_SHELL_PORT", 8080)
	if err != nil {
		return cfg, fmt.Errorf("shell port config error: %w", err)
	}

	cfg.Storage.Driver = StorageDriver(getEnvString("MARKAP_STORAGE_DRIVER", string(StorageFile)))
	switch cfg.Storage.Driver {
	case StorageMemory, StorageFile, StorageRedis, StoragePostgres:
	default:
		return cfg, fmt.Errorf("invalid MARKAP_STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	cfg.Storage.FilePath = getEnvString("MARKAP_STORAGE_FILE", defaultStatePath())
	cfg.Storage.FileSecret = getEnvString("MARKAP_STORAGE_SECRET", "")
	cfg.Storage.RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	cfg.Storage.RedisPassword = getEnvString("REDIS_PASSWORD", "")
	cfg.Storage.RedisDB, err = getEnvInt("REDIS_DB", 0)
	if err != nil {
		return cfg, fmt.Errorf("redis db config error: %w", err)
	}
	cfg.Storage.PostgresURL = getEnvString("DATABASE_URL", "")

	return cfg, nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".markap/state.json"
	}
	return home + "/.markap/state.json"
}

func getEnvString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	// Accept plain milliseconds for parity with the previous client's
	// VITE_API_TIMEOUT, as well as Go duration strings.
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, value)
	}
	return d, nil
}
