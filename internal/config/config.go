package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN            string
	Port             int
	AppURL           string
	Environment      string
	MigrationsDir    string
	RateLimitPerSec  float64
	RateLimitBurst   int
	DefaultLinkHours int
}

// Load reads configuration from the environment, after loading .env if one
// is present.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		Port:             getInt("PORT", 8080),
		AppURL:           getString("APP_URL", "http://localhost:8080"),
		Environment:      getString("ENV", "development"),
		MigrationsDir:    getString("MIGRATIONS_DIR", "migrations"),
		RateLimitPerSec:  getFloat("RATE_LIMIT_PER_SEC", 10),
		RateLimitBurst:   getInt("RATE_LIMIT_BURST", 5),
		DefaultLinkHours: getInt("LINK_TTL_HOURS", 24),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %g", key, v, fallback)
		return fallback
	}
	return f
}
