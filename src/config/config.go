package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	DatabasePath       string
	LogLevel           string
	DefaultAccountType string
	ReportCacheExpiry  time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found. Relying on OS environment variables and defaults.")
	}

	Cfg = &AppConfig{
		DatabasePath:       getEnv("MYTRADES_DB_PATH", "trades.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DefaultAccountType: getEnv("DEFAULT_ACCOUNT_TYPE", "joint"),
		ReportCacheExpiry:  getEnvDuration("REPORT_CACHE_EXPIRY", 15*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: Invalid %s format %q. Using default %s. Error: %v", key, value, fallback, err)
		return fallback
	}
	return d
}
