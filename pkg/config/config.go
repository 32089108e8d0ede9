package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	DatabasePath     string
	SimFailureRate   float64
	SimCreateLatency time.Duration
	SimUpdateLatency time.Duration
	ToastTimeout     time.Duration
	ReminderInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		DatabasePath:     getEnv("DATABASE_PATH", "taskportal.db"),
		SimFailureRate:   getFloat("SIM_FAILURE_RATE", 0.2),
		SimCreateLatency: getDuration("SIM_CREATE_LATENCY", 900*time.Millisecond),
		SimUpdateLatency: getDuration("SIM_UPDATE_LATENCY", 850*time.Millisecond),
		ToastTimeout:     getDuration("TOAST_TIMEOUT", 5500*time.Millisecond),
		ReminderInterval: getDuration("REMINDER_INTERVAL", 1*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
