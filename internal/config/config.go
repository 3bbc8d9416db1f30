// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string        `validate:"required"`
	DBPath        string        `validate:"required"`
	StaticPath    string        `validate:"required"`
	JWTSecret     string        `validate:"required,min=16"`
	TokenTTL      time.Duration `validate:"gt=0"`
	ScanURL       string        `validate:"omitempty,url"`
	ScanTimeout   time.Duration `validate:"gt=0"`
	AllowedOrigin string        `validate:"required"`
}

// ScanEnabled reports whether a scanning service is configured.
func (s Server) ScanEnabled() bool {
	return s.ScanURL != ""
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("failed to load .env: %w", err)
	}

	tokenTTL, err := durationEnv("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return Server{}, err
	}
	scanTimeout, err := durationEnv("SCAN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Addr:          ":" + getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/bills.db"),
		StaticPath:    getEnv("STATIC_PATH", "../frontend/static"),
		JWTSecret:     getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:      tokenTTL,
		ScanURL:       strings.TrimSpace(os.Getenv("SCAN_URL")),
		ScanTimeout:   scanTimeout,
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Server{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UsesDevSecret reports whether JWT_SECRET was left at its development default.
func (s Server) UsesDevSecret() bool {
	return s.JWTSecret == devJWTSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
