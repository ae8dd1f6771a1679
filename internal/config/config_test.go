package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestGetEnvAsIntOrDefault_RejectsNonPositive(t *testing.T) {
	t.Setenv("TEST_INT_ZERO", "0")
	t.Setenv("TEST_INT_NEG", "-3")

	if got := getEnvAsIntOrDefault("TEST_INT_ZERO", 5); got != 5 {
		t.Errorf("Expected default for zero, got %d", got)
	}
	if got := getEnvAsIntOrDefault("TEST_INT_NEG", 5); got != 5 {
		t.Errorf("Expected default for negative, got %d", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "AI_PROVIDER", "DATABASE_URL", "REDIS_URL", "ADMIN_USERNAME", "SESSION_IDLE_MINUTES", "AI_TIMEOUT_SECONDS", "REPORT_WORKERS"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.AI.Provider != "gemini" || cfg.AI.GeminiModel == "" {
		t.Errorf("unexpected AI defaults %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("Expected 30s pipeline timeout, got %s", cfg.AI.Timeout)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Errorf("Expected optional stores to be empty")
	}
	if cfg.AdminUsername != "admin" || cfg.SessionIdle != 30*time.Minute || cfg.ReportWorkers != 2 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "ark")
	t.Setenv("ARK_MODEL", "ep-2024")
	t.Setenv("FACTCHECK_CACHE_TTL_MINUTES", "5")

	cfg := Load()
	if cfg.AI.Provider != "ark" || cfg.AI.ArkModel != "ep-2024" {
		t.Errorf("unexpected AI config %+v", cfg.AI)
	}
	if cfg.FactCheckCacheTTL != 5*time.Minute {
		t.Errorf("Expected 5m cache TTL, got %s", cfg.FactCheckCacheTTL)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic without JWT_SECRET")
		}
	}()
	Load()
}
