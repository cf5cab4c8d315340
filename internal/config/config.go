package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every recognized option. Values come from the environment, with a
// .env file loaded first when present.
type Config struct {
	DatabaseURL string
	RedisURL    string
	BaseURL     string // scheme+host prefix for generated short URLs
	Port        int

	JWTSecret     string
	JWTTTLSeconds int64
	AdminEmail    string // registrations with this email are seeded as ADMIN

	CacheDefaultTTL  int64 // seconds, cache TTL for mappings without expiry
	ResolveRefillTTL int64 // seconds, cache TTL when refilling a non-expiring mapping
	ResolveRefillCap int64 // seconds, upper bound on refill TTL for expiring mappings

	CodeLength      int
	CodeMaxAttempts int

	ClickWorkers   int
	ClickQueueSize int

	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
}

// Load reads configuration from the environment.
func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost"),
		Port:        getEnvInt("PORT", 8080),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTTTLSeconds: getEnvInt64("JWT_TTL_SECONDS", 86400),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),

		CacheDefaultTTL:  getEnvInt64("CACHE_DEFAULT_TTL", 86400),
		ResolveRefillTTL: getEnvInt64("RESOLVE_REFILL_TTL", 300),
		ResolveRefillCap: getEnvInt64("RESOLVE_REFILL_CAP", 86400),

		CodeLength:      getEnvInt("CODE_LENGTH", 7),
		CodeMaxAttempts: getEnvInt("CODE_MAX_ATTEMPTS", 5),

		ClickWorkers:   getEnvInt("CLICK_WORKERS", 4),
		ClickQueueSize: getEnvInt("CLICK_QUEUE_SIZE", 1024),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
