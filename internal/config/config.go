package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docnif/internal/reconstruct"
)

type Config struct {
	Port string

	// NIF backend
	BackendURL     string
	BackendTimeout time.Duration
	BackendRPS     float64

	// Auth; empty disables it
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Extraction
	ReadingOrder string
	MaxPages     int
	ExtraFormats bool

	// Submission history
	DBPath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		BackendURL:     envOr("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout: envDuration("BACKEND_TIMEOUT", 120*time.Second),
		BackendRPS:     envFloat("BACKEND_RPS", 5),

		APIKey: os.Getenv("DOCNIF_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ReadingOrder: envOr("READING_ORDER", reconstruct.DefaultOrder.String()),
		MaxPages:     envInt("MAX_PAGES", 0),
		ExtraFormats: envBool("EXTRA_FORMATS", false),

		DBPath: envOr("DB_PATH", "docnif.db"),
	}

	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 120 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxPages < 0 {
		cfg.MaxPages = 0
	}

	return cfg
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}
	if _, err := reconstruct.ParseOrder(c.ReadingOrder); err != nil {
		return fmt.Errorf("READING_ORDER: %w", err)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}

// Order returns the configured reading order, or the default when it does
// not parse. Validate reports the parse error.
func (c Config) Order() reconstruct.Order {
	order, err := reconstruct.ParseOrder(c.ReadingOrder)
	if err != nil {
		return reconstruct.DefaultOrder
	}
	return order
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
