package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string
	Port          string
	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// Overstay sweep job.
	SweepSchedule  string
	OverstayAfter  time.Duration
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "adminpass"),
		SweepSchedule: getEnv("OVERSTAY_SWEEP_SCHEDULE", "@every 30m"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	overstay := getEnv("OVERSTAY_AFTER", "24h")
	d, err := time.ParseDuration(overstay)
	if err != nil {
		return nil, fmt.Errorf("invalid OVERSTAY_AFTER %q: %w", overstay, err)
	}
	cfg.OverstayAfter = d

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = []string{origins}
	} else {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
