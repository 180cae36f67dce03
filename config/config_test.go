package config

import (
	"strings"
	"testing"
	"time"
)

func clearMarkapEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"MARKAP_API_BASE_URL", "MARKAP_API_TIMEOUT",
		"MARKAP_APP_NAME", "MARKAP_APP_VERSION", "MARKAP_APP_ENV",
		"MARKAP_ENABLE_DEV_TOOLS", "MARKAP_SHELL_PORT",
		"MARKAP_STORAGE_DRIVER", "MARKAP_STORAGE_FILE", "MARKAP_STORAGE_SECRET",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

// Requirement: with an empty environment the defaults match the shipped
// deployment: local backend, 30s timeout, development mode, file storage.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	clearMarkapEnv(t)

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:3000/api" {
		t.Errorf("API.BaseURL = %q, want the local default", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.App.Environment != EnvDevelopment || !cfg.App.IsDev() {
		t.Errorf("App.Environment = %q, want development", cfg.App.Environment)
	}
	if !cfg.App.EnableDevTools {
		t.Error("EnableDevTools = false, want true in development")
	}
	if cfg.Shell.Port != 8080 {
		t.Errorf("Shell.Port = %d, want 8080", cfg.Shell.Port)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Errorf("Storage.Driver = %q, want file", cfg.Storage.Driver)
	}
	if !strings.HasSuffix(cfg.Storage.FilePath, ".markap/state.json") {
		t.Errorf("Storage.FilePath = %q, want the home-directory state file", cfg.Storage.FilePath)
	}
}

// Requirement: environment variables override the defaults, and the timeout
// accepts both plain milliseconds and Go duration strings.
func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name        string
		timeout     string
		wantTimeout time.Duration
	}{
		{name: "milliseconds", timeout: "15000", wantTimeout: 15 * time.Second},
		{name: "duration string", timeout: "2m", wantTimeout: 2 * time.Minute},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			clearMarkapEnv(t)
			t.Setenv("MARKAP_API_BASE_URL", "https://api.markap.pe/api")
			t.Setenv("MARKAP_API_TIMEOUT", test.timeout)
			t.Setenv("MARKAP_APP_ENV", "production")
			t.Setenv("MARKAP_SHELL_PORT", "9000")
			t.Setenv("MARKAP_STORAGE_DRIVER", "redis")
			t.Setenv("REDIS_ADDR", "cache.internal:6379")
			t.Setenv("REDIS_DB", "3")

			// Act
			cfg, err := Load()

			// Assert
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.API.BaseURL != "https://api.markap.pe/api" {
				t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
			}
			if cfg.API.Timeout != test.wantTimeout {
				t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, test.wantTimeout)
			}
			if !cfg.App.IsProd() {
				t.Error("IsProd() = false, want true")
			}
			if cfg.App.EnableDevTools {
				t.Error("EnableDevTools = true, want false outside development")
			}
			if cfg.Shell.Port != 9000 {
				t.Errorf("Shell.Port = %d, want 9000", cfg.Shell.Port)
			}
			if cfg.Storage.Driver != StorageRedis || cfg.Storage.RedisAddr != "cache.internal:6379" || cfg.Storage.RedisDB != 3 {
				t.Errorf("Storage = %+v, want the redis settings", cfg.Storage)
			}
		})
	}
}

// Requirement: malformed values fail loading instead of silently defaulting.
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown environment", key: "MARKAP_APP_ENV", value: "qa"},
		{name: "unknown storage driver", key: "MARKAP_STORAGE_DRIVER", value: "s3"},
		{name: "non-numeric port", key: "MARKAP_SHELL_PORT", value: "eighty"},
		{name: "bad timeout", key: "MARKAP_API_TIMEOUT", value: "soon"},
		{name: "bad dev tools flag", key: "MARKAP_ENABLE_DEV_TOOLS", value: "si"},
		{name: "bad redis db", key: "REDIS_DB", value: "three"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearMarkapEnv(t)
			t.Setenv(test.key, test.value)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() error = nil with %s=%q, want an error", test.key, test.value)
			}
		})
	}
}
