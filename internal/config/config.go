package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	ProductsFile    string
	MirrorFile      string
	UploadDir       string
	SiteDir         string
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ProductsFile:    envOrDefault("PRODUCTS_FILE", "data/products.json"),
		MirrorFile:      envOrDefault("MIRROR_FILE", "data/products-data.js"),
		UploadDir:       envOrDefault("UPLOAD_DIR", "images/uploaded"),
		SiteDir:         envOrDefault("SITE_DIR", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
