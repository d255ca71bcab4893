package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultStorageRoot     = "./data/assets"
	defaultDownloadTimeout = "30s"
	defaultProbeTimeout    = "5s"
	defaultImageCacheSize  = "512"
	defaultRateLimit       = "20"
	defaultRateWindow      = "1s"
	defaultSweepInterval   = "5m"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
)

// Config is the runtime configuration of the artwork service, read from the
// environment once at startup.
type Config struct {
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	StorageRoot         string
	CoverAlongsideAudio bool

	// DownloadTimeout bounds real image downloads; ProbeTimeout is the
	// short bound health-style probes should use via context.
	DownloadTimeout time.Duration
	ProbeTimeout    time.Duration

	ImageCacheSize int

	RateLimit      int
	RateWindow     time.Duration
	SweepInterval  time.Duration
	ReconcileCron  string
	ReconcileApply bool

	JWTSecret string
	JWTTTL    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:           strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379")),
		StorageRoot:         strings.TrimSpace(getEnv("STORAGE_ROOT", defaultStorageRoot)),
		CoverAlongsideAudio: parseBoolEnv("COVER_ALONGSIDE_AUDIO", "false"),
		ReconcileCron:       strings.TrimSpace(os.Getenv("RECONCILE_CRON")),
		ReconcileApply:      parseBoolEnv("RECONCILE_APPLY", "false"),
		JWTSecret:           strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.DownloadTimeout, err = parseDurationEnv("DOWNLOAD_TIMEOUT", defaultDownloadTimeout); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = parseDurationEnv("PROBE_TIMEOUT", defaultProbeTimeout); err != nil {
		return nil, err
	}
	if cfg.ImageCacheSize, err = parseIntEnv("IMAGE_CACHE_SIZE", defaultImageCacheSize); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = parseIntEnv("RATE_LIMIT", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = parseDurationEnv("RATE_WINDOW", defaultRateWindow); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.StorageRoot == "" {
		return fmt.Errorf("STORAGE_ROOT must not be empty")
	}
	if cfg.DownloadTimeout <= 0 {
		return fmt.Errorf("DOWNLOAD_TIMEOUT must be > 0")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be > 0")
	}
	if cfg.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be > 0")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
