package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// Bucket holding product image blobs and the pub/sub topic that
	// image mutation events are published to.
	ImageBucket string
	ImageTopic  string

	// MaxQuantity is the upper bound on product quantity.
	MaxQuantity int

	// EmptyUpdateNoOp controls what an update with no fields returns:
	// true -> 204 no-op, false -> 400 invalid input.
	EmptyUpdateNoOp bool

	// Reconciliation sweep for image rows that never finished phase 1.
	ReconcileInterval time.Duration
	ReconcileMaxAge   time.Duration
}

// Load reads configuration from the environment. A .env file is honored
// when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              envInt("PORT", 8080),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          envDuration("TOKEN_TTL", time.Hour),
		RedisAddr:         envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		MinioEndpoint:     envString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:       envBool("MINIO_USE_SSL", false),
		ImageBucket:       envString("IMAGE_BUCKET", "product-images"),
		ImageTopic:        envString("IMAGE_TOPIC", "product-image-events"),
		MaxQuantity:       envInt("PRODUCT_MAX_QUANTITY", 100),
		EmptyUpdateNoOp:   envBool("EMPTY_UPDATE_NOOP", false),
		ReconcileInterval: envDuration("RECONCILE_INTERVAL", 10*time.Minute),
		ReconcileMaxAge:   envDuration("RECONCILE_MAX_AGE", 30*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
