package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host                string
	Port                int
	SaveDirectory       string
	AllowedContentTypes []string
	MaxUploadBytes      int64 // Limit for a single request body in bytes, 0 means unlimited
	LogDirectory        string
	DatabasePath        string // Empty disables the capture catalog
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
}

// Load reads an optional .env file and builds the configuration from the environment.
func Load() *Config {
	// Missing .env is fine, real environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Host:                getEnv("HOST", "0.0.0.0"),
		Port:                getEnvAsInt("PORT", 8501),
		SaveDirectory:       getEnv("SAVE_DIR", filepath.Join("Backend", "files")),
		AllowedContentTypes: getEnvAsList("ALLOWED_CONTENT_TYPES", []string{"image/jpeg", "image/jpg"}),
		MaxUploadBytes:      getEnvAsInt64("MAX_UPLOAD_BYTES", 0),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		DatabasePath:        getEnvAllowEmpty("DB_PATH", filepath.Join(".", "data", "captures.db")),
		ReadTimeout:         time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout:        time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		IdleTimeout:         time.Duration(getEnvAsInt("IDLE_TIMEOUT", 60)) * time.Second,
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty treats a variable that is set but empty as an explicit value.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
