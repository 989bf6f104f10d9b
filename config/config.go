// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"
)

type Config struct {
	Port string
	Env  string

	// Postgres. DatabaseURL wins over the individual parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret   string
	AdminAPIKey string

	// Cart persistence
	CartStore     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	RateLimit  int
	RateWindow time.Duration

	CORSAllowOrigins []string
	SeedCatalog      bool
	ShutdownTimeout  time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	env := strings.ToLower(getenv("APP_ENV", getenv("NODE_ENV", EnvDevelopment)))

	defaultOrigins := "http://localhost:3001,http://localhost:5173"
	if env == EnvProduction {
		defaultOrigins = "https://oremus.app"
	}

	return Config{
		Port: getenv("PORT", "3001"),
		Env:  env,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME", "oremus"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),

		JWTSecret:   getenv("SUPABASE_JWT_SECRET", os.Getenv("JWT_SECRET")),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		CartStore:     strings.ToLower(getenv("CART_STORE", CartStoreRedis)),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       parseInt(os.Getenv("REDIS_DB"), 0),
		CartTTL:       parseDuration(getenv("CART_TTL", "720h"), 30*24*time.Hour),

		RateLimit:  parseInt(os.Getenv("RATE_LIMIT_MAX"), 100),
		RateWindow: parseDuration(getenv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", defaultOrigins)),
		SeedCatalog:      parseBool(os.Getenv("SEED_CATALOG"), true),
		ShutdownTimeout:  parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN returns the Postgres connection string for GORM.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}
