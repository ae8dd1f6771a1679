package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
)

// AIConfig is the model provider section, shared by the server and the
// crisisctl CLI.
type AIConfig struct {
	Provider           string
	GeminiAPIKey       string
	GeminiModel        string
	ArkAPIKey          string
	ArkModel           string
	ArkBaseURL         string
	ArkRegion          string
	ConcurrentRequests int
	Timeout            time.Duration
}

type Config struct {
	// Server
	Port string
	Env  string

	// Model provider
	AI AIConfig

	// Database (optional, in-memory stores when empty)
	DatabaseURL   string
	MigrationsDir string

	// Redis (optional)
	RedisURL string

	// JWT
	JWTSecret string

	// Console accounts
	AdminUsername     string
	AdminPassword     string
	VolunteerUsername string
	VolunteerPassword string

	// Frontend
	FrontendURL string

	// Tuning
	FactCheckCacheTTL time.Duration
	SessionIdle       time.Duration
	ReportWorkers     int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		AI:                loadAI(),
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		MigrationsDir:     getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		AdminUsername:     getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
		VolunteerUsername: getEnvOrDefault("VOLUNTEER_USERNAME", "volunteer"),
		VolunteerPassword: getEnvOrDefault("VOLUNTEER_PASSWORD", "volunteer123"),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		FactCheckCacheTTL: time.Duration(getEnvAsIntOrDefault("FACTCHECK_CACHE_TTL_MINUTES", 60)) * time.Minute,
		SessionIdle:       time.Duration(getEnvAsIntOrDefault("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		ReportWorkers:     getEnvAsIntOrDefault("REPORT_WORKERS", 2),
	}

	return cfg
}

// LoadAI reads only the provider settings. It does not require the
// server-only variables.
func LoadAI() AIConfig {
	godotenv.Load()
	return loadAI()
}

func loadAI() AIConfig {
	return AIConfig{
		Provider:           getEnvOrDefault("AI_PROVIDER", "gemini"),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		ArkAPIKey:          getEnvOrDefault("ARK_API_KEY", ""),
		ArkModel:           getEnvOrDefault("ARK_MODEL", ""),
		ArkBaseURL:         getEnvOrDefault("ARK_BASE_URL", ""),
		ArkRegion:          getEnvOrDefault("ARK_REGION", ""),
		ConcurrentRequests: getEnvAsIntOrDefault("AI_CONCURRENT_REQUESTS", 5),
		Timeout:            time.Duration(getEnvAsIntOrDefault("AI_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// ProviderConfig converts the section into the form the model providers
// take.
func (c AIConfig) ProviderConfig() services.ProviderConfig {
	return services.ProviderConfig{
		Name:         c.Provider,
		GeminiAPIKey: c.GeminiAPIKey,
		GeminiModel:  c.GeminiModel,
		Ark: services.ArkConfig{
			APIKey:  c.ArkAPIKey,
			Model:   c.ArkModel,
			BaseURL: c.ArkBaseURL,
			Region:  c.ArkRegion,
		},
		ConcurrentRequests: c.ConcurrentRequests,
	}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
