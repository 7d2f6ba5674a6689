// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Gemini   GeminiConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// DatabaseConfig holds document store configuration
type DatabaseConfig struct {
	URI             string
	Name            string
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxRetryAttempts int
	SlowOpThreshold time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider      string // "memory" or "redis"
	RedisURL      string
	RedisDB       int
	RedisPassword string
	DefaultTTL    time.Duration
}

// AuthConfig holds authentication configuration. Token issuance and expiry
// policy live in an external service; this application only verifies bearer
// tokens, including their exp claim.
type AuthConfig struct {
	JWTSecret string
}

// GeminiConfig holds generative-text provider configuration
type GeminiConfig struct {
	APIKey         string
	Model          string
	Endpoint       string
	RequestTimeout time.Duration
	MaxRetries     int
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("GO_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Name:             getEnv("MONGO_DB", "coursehub"),
			ConnectTimeout:   getDurationEnv("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			QueryTimeout:     getDurationEnv("MONGO_QUERY_TIMEOUT", 30*time.Second),
			MaxPoolSize:      uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:      uint64(getIntEnv("MONGO_MIN_POOL_SIZE", 0)),
			MaxRetryAttempts: getIntEnv("MONGO_MAX_RETRY_ATTEMPTS", 3),
			SlowOpThreshold:  getDurationEnv("MONGO_SLOW_OP_THRESHOLD", 100*time.Millisecond),
		},
		Cache: CacheConfig{
			Provider:      getEnv("CACHE_PROVIDER", "memory"),
			RedisURL:      getEnv("REDIS_URL", ""),
			RedisDB:       getIntEnv("REDIS_DB", 0),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			DefaultTTL:    getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Endpoint:       getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			RequestTimeout: getDurationEnv("GEMINI_REQUEST_TIMEOUT", 60*time.Second),
			MaxRetries:     getIntEnv("GEMINI_MAX_RETRIES", 2),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate enforces settings that must be present for a given environment.
func (c *Config) validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("MONGO_DB is required")
	}
	if c.Server.Environment == "production" {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.Cache.Provider == "redis" && c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_PROVIDER=redis")
		}
	}
	if c.Cache.Provider != "memory" && c.Cache.Provider != "redis" {
		return fmt.Errorf("unknown cache provider %q", c.Cache.Provider)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}
