// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process
// exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the workshop service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	BayCount          int // physical service bays; caps the In Bay lane
	ReminderWindowMin int // how far ahead the sweep looks for appointments
	SweepIntervalMin  int // how often the reminder sweep runs
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("WORKSHOP_PORT")
	if port == "" {
		port = "8083"
	}

	bayCount, err := intEnv("BAY_COUNT", 3)
	if err != nil {
		return nil, err
	}
	if bayCount < 1 {
		return nil, fmt.Errorf("BAY_COUNT must be at least 1")
	}

	reminderWindow, err := intEnv("REMINDER_WINDOW_MIN", 30)
	if err != nil {
		return nil, err
	}

	sweepInterval, err := intEnv("SWEEP_INTERVAL_MIN", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		BayCount:          bayCount,
		ReminderWindowMin: reminderWindow,
		SweepIntervalMin:  sweepInterval,
	}, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
