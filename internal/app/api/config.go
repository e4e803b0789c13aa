package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// devJWTSecret signs tokens when JWT_SECRET is unset. Only acceptable for
// local development; LoadConfig refuses it in release mode.
const devJWTSecret = "insecure-dev-secret"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	JWTSecret   string
	ReleaseMode bool
	// AdminEmail/AdminPassword seed the initial ADMIN account at boot.
	// Self-registration only ever grants the USER role, so without a seeded
	// admin no account can reach the user-administration routes.
	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints. A .env file in the working directory is loaded first
// when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		JWTSecret:     envDefault("JWT_SECRET", devJWTSecret),
		ReleaseMode:   isTruthy(os.Getenv("GIN_RELEASE_MODE")),
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.ReleaseMode && cfg.JWTSecret == devJWTSecret {
		return Config{}, fmt.Errorf("JWT_SECRET must be set when running in release mode")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
