package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Uploads struct {
		Dir            string
		PublicPath     string
		PlaceholderURL string
	}
	Cache struct {
		FeedTTL time.Duration
	}
	Workers struct {
		CleanupEnabled  bool
		CleanupInterval time.Duration
		CleanupMaxAge   time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Export struct {
		OutputDir string
	}
	Log struct {
		Level string
		JSON  bool
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "3000")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "3306")
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "")
	cfg.DB.DBName = getEnv("DB_NAME", "lost_found_db")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", true)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// SMTP (confirmation emails)
	cfg.SMTP.Host = getEnv("SMTP_HOST", "smtp.gmail.com")
	cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", 587)
	cfg.SMTP.Username = getEnv("EMAIL_USER", "")
	cfg.SMTP.Password = getEnv("EMAIL_PASS", "")
	cfg.SMTP.From = getEnv("EMAIL_FROM", cfg.SMTP.Username)

	// Uploads
	cfg.Uploads.Dir = getEnv("UPLOADS_DIR", "public/uploads")
	cfg.Uploads.PublicPath = getEnv("UPLOADS_PUBLIC_PATH", "/uploads")
	cfg.Uploads.PlaceholderURL = getEnv("PLACEHOLDER_IMAGE_URL",
		"https://via.placeholder.com/300x200?text=No+Image")

	// Feed cache
	cfg.Cache.FeedTTL = getEnvAsDuration("FEED_CACHE_TTL", 30*time.Second)

	// Workers
	cfg.Workers.CleanupEnabled = getEnvAsBool("CLEANUP_ENABLED", true)
	cfg.Workers.CleanupInterval = getEnvAsDuration("CLEANUP_INTERVAL", 6*time.Hour)
	cfg.Workers.CleanupMaxAge = getEnvAsDuration("CLEANUP_MAX_AGE", 24*time.Hour)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	// Export
	cfg.Export.OutputDir = getEnv("EXPORT_OUTPUT_DIR", "./data/exports")

	// Logging
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.JSON = getEnvAsBool("LOG_JSON", false)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
