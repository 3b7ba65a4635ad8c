package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// InsecureDefaultSecret is used when JWT_SECRET is unset so local
// development works out of the box. Any real deployment must
// override it.
const InsecureDefaultSecret = "change-me"

// Config is read once at startup and passed by reference. Nothing
// re-reads the environment after Load returns.
type Config struct {
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	JWTSecret    string
	TokenTTL     time.Duration
	QueryTimeout time.Duration

	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
}

// Load reads configuration from the environment, with a .env file as
// an optional source for local development.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWTSecret:    getEnv("JWT_SECRET", InsecureDefaultSecret),
		TokenTTL:     time.Duration(getEnvAsInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,
		QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),

		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
