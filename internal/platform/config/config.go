// Package config loads the service configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"analytics_backend/internal/platform/db"
)

// Config carries everything the service needs at startup. It is built
// once in main and passed down; nothing reads the environment afterwards.
type Config struct {
	Addr string
	DB   db.Config
}

// Load reads a local .env file if present, then the environment. Missing
// .env is not an error outside development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr: ":" + getenvDefault("BACKEND_PORT", "8000"),
		DB:   db.LoadConfigFromEnv(),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
