package config

import (
	"log/slog"
	"os"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	GeminiAPIKey string
	GeminiModel  string
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/pennywise?parseTime=true"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", devSecret),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", devSecret),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 720*time.Hour),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}

	if cfg.Env == "production" && (cfg.AccessTokenSecret == devSecret || cfg.RefreshTokenSecret == devSecret) {
		slog.Error("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
