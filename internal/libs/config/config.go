// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	WALDir             string
	APIPort            string
	APIHost            string
	LogLevel           string
	MaxSegmentSize     int64
	SyncPerWrite       bool
	SyncBytesThreshold int64
	SyncInterval       time.Duration
	BlockCacheSize     int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		WALDir:   getEnv("WAL_DIR", "./data/wal"),
		APIPort:  getEnv("API_PORT", "8080"),
		APIHost:  getEnv("API_HOST", "0.0.0.0"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxSegmentSize, err = getEnvInt64("WAL_MAX_SEGMENT_SIZE", 64*1024*1024); err != nil {
		return nil, err
	}
	if cfg.SyncBytesThreshold, err = getEnvInt64("WAL_SYNC_BYTES_THRESHOLD", 0); err != nil {
		return nil, err
	}
	if cfg.SyncPerWrite, err = getEnvBool("WAL_SYNC_PER_WRITE", false); err != nil {
		return nil, err
	}
	if cfg.SyncInterval, err = getEnvDuration("WAL_SYNC_INTERVAL", 0); err != nil {
		return nil, err
	}
	blockCacheSize, err := getEnvInt64("WAL_BLOCK_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	cfg.BlockCacheSize = int(blockCacheSize)

	if cfg.WALDir == "" {
		return nil, fmt.Errorf("WAL_DIR is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}
