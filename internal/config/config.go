package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	gomoney "github.com/Rhymond/go-money"

	applog "finboard/internal/log"
)

type Config struct {
	// Remote service
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Dashboard
	WindowMonths     int
	FetchConcurrency int
	Currency         string

	// Logging
	LogLevel string
	LogFile  string

	// Stub service
	Port           string
	StubWriteLimit int
	StubSeedFile   string
}

func Load() *Config {
	return &Config{
		APIBaseURL:  getEnv("FINBOARD_API_URL", "http://localhost:5000"),
		HTTPTimeout: getEnvDuration("FINBOARD_HTTP_TIMEOUT", 10*time.Second),

		WindowMonths:     getEnvInt("FINBOARD_WINDOW_MONTHS", 6),
		FetchConcurrency: getEnvInt("FINBOARD_FETCH_CONCURRENCY", 4),
		Currency:         strings.ToUpper(getEnv("FINBOARD_CURRENCY", "USD")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "finboard.log"),

		Port:           getEnv("PORT", "5000"),
		StubWriteLimit: getEnvInt("FINBOARD_STUB_WRITE_LIMIT", 120),
		StubSeedFile:   getEnv("FINBOARD_STUB_SEED", "data/seed.json"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if parsed, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.APIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	} else if parsed.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': missing host", c.APIBaseURL))
	}

	if c.HTTPTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must not be negative", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.WindowMonths < 1 || c.WindowMonths > 36 {
		errors = append(errors, fmt.Sprintf("invalid window size %d: must be between 1 and 36 months", c.WindowMonths))
	}

	if c.FetchConcurrency < 0 || c.FetchConcurrency > 64 {
		errors = append(errors, fmt.Sprintf("invalid fetch concurrency %d: must be between 0 and 64", c.FetchConcurrency))
	}

	if gomoney.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency code '%s'", c.Currency))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.StubWriteLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid stub write limit %d: must not be negative", c.StubWriteLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
