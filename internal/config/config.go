package config

import (
	"fmt"
	"strconv"
	"time"
)

const DefaultConfigFile = "application.properties"

type Config struct {
	Port                string
	RedisURL            string
	HealthCheckInterval time.Duration
	HealthCheckRetries  int
	RequestTimeout      time.Duration
	Stage               string
	LogLevel            string
	VNPay               *VNPayConfig
}

// Load builds the process configuration from src. Ambient settings fall back
// to defaults; the VNPay credentials are required.
func Load(src Source) (*Config, error) {
	vnpay, err := LoadVNPay(src)
	if err != nil {
		return nil, err
	}

	interval, err := getDuration(src, "HEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	timeout, err := getDuration(src, "REQUEST_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}

	retries, err := getInt(src, "HEALTH_CHECK_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                getEnv(src, "PORT", "8080"),
		RedisURL:            getEnv(src, "REDIS_URL", "redis://localhost:6379"),
		HealthCheckInterval: interval,
		HealthCheckRetries:  retries,
		RequestTimeout:      timeout,
		Stage:               getEnv(src, "STAGE", "dev"),
		LogLevel:            getEnv(src, "LOG_LEVEL", "info"),
		VNPay:               vnpay,
	}, nil
}

func getEnv(src Source, key, defaultValue string) string {
	if value, ok := src.Lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(src Source, key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := src.Lookup(key)
	if !ok || value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration for %s: must be positive", key)
	}
	return d, nil
}

func getInt(src Source, key string, defaultValue int) (int, error) {
	value, ok := src.Lookup(key)
	if !ok || value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid integer for %s: must not be negative", key)
	}
	return n, nil
}
