// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// URLPolicy selects how access URLs for stored objects are produced.
// It is a deployment-wide choice made at startup, never a per-request branch.
type URLPolicy string

const (
	// URLPolicySigned hands out time-limited presigned GET URLs; the bucket stays private.
	URLPolicySigned URLPolicy = "signed"
	// URLPolicyPublic hands out direct object URLs; the bucket is marked world-readable.
	URLPolicyPublic URLPolicy = "public"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	Greeting string

	// Object storage (S3-compatible: MinIO locally, any S3 provider in production)
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/images"

	URLPolicy    URLPolicy
	SignedURLTTL time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables. The storage endpoint has no default: a missing value is a
// startup failure, never a request-time one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Greeting: getEnv("GREETING", "hello world"),

		StorageEndpoint:   os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "images"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "false") == "true",
		StoragePublicBase: os.Getenv("STORAGE_PUBLIC_BASE"),
	}

	if cfg.StorageEndpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}

	switch p := URLPolicy(getEnv("URL_POLICY", string(URLPolicySigned))); p {
	case URLPolicySigned, URLPolicyPublic:
		cfg.URLPolicy = p
	default:
		return nil, fmt.Errorf("invalid URL_POLICY %q (want %q or %q)", p, URLPolicySigned, URLPolicyPublic)
	}

	ttl, err := time.ParseDuration(getEnv("SIGNED_URL_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIGNED_URL_TTL: %w", err)
	}
	cfg.SignedURLTTL = ttl

	if cfg.URLPolicy == URLPolicyPublic && cfg.StoragePublicBase == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		cfg.StoragePublicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
