// Package config holds the client configuration: credentials, gateway
// endpoints, proxy mapping and the transport's timeout and retry bounds.
// Credential sourcing is explicit -- the environment is only consulted in
// UpdateConfigWithEnvOverrides, never inside the client itself.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DefaultSendEndpoint = "https://fcm.googleapis.com/fcm/send"
	DefaultIIDEndpoint  = "https://iid.googleapis.com"

	// DefaultRequestTimeout bounds each individual gateway call.
	DefaultRequestTimeout = 120 * time.Second

	// DefaultMaxRetryAfter is how many additional attempts a Retry-After
	// response may trigger. One matches the gateway's observed behavior of
	// a single wait-then-retry.
	DefaultMaxRetryAfter = 1
)

// Config defines the single, authoritative client configuration.
type Config struct {
	// APIKey authenticates every gateway call.
	APIKey string

	// SendEndpoint receives notification payloads; IIDEndpoint is the base
	// URL for token info and topic batch management.
	SendEndpoint string
	IIDEndpoint  string

	// Proxies maps a URL scheme ("http", "https") to a proxy URL. Applied
	// once at client construction.
	Proxies map[string]string

	RequestTimeout time.Duration
	MaxRetryAfter  int
}

// New returns a Config for the public gateway with default transport
// settings.
func New(apiKey string) *Config {
	return &Config{
		APIKey:         apiKey,
		SendEndpoint:   DefaultSendEndpoint,
		IIDEndpoint:    DefaultIIDEndpoint,
		RequestTimeout: DefaultRequestTimeout,
		MaxRetryAfter:  DefaultMaxRetryAfter,
	}
}

// UpdateConfigWithEnvOverrides applies environment variables and final
// validation, filling defaults for anything still unset.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("FCM_API_KEY"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_API_KEY", "source", "env")
		cfg.APIKey = val
	}
	if val := os.Getenv("FCM_SEND_ENDPOINT"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_SEND_ENDPOINT", "source", "env")
		cfg.SendEndpoint = val
	}
	if val := os.Getenv("FCM_IID_ENDPOINT"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_IID_ENDPOINT", "source", "env")
		cfg.IIDEndpoint = val
	}
	if val := os.Getenv("FCM_HTTP_PROXY"); val != "" {
		if cfg.Proxies == nil {
			cfg.Proxies = map[string]string{}
		}
		cfg.Proxies["http"] = val
	}
	if val := os.Getenv("FCM_HTTPS_PROXY"); val != "" {
		if cfg.Proxies == nil {
			cfg.Proxies = map[string]string{}
		}
		cfg.Proxies["https"] = val
	}
	if val := os.Getenv("FCM_REQUEST_TIMEOUT_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
			logger.Debug("Overriding config value", "key", "FCM_REQUEST_TIMEOUT_SECONDS", "source", "env")
			cfg.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}
	if val := os.Getenv("FCM_MAX_RETRY_AFTER"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil && retries >= 0 {
			logger.Debug("Overriding config value", "key", "FCM_MAX_RETRY_AFTER", "source", "env")
			cfg.MaxRetryAfter = retries
		}
	}

	// Final validation.
	if cfg.SendEndpoint == "" {
		cfg.SendEndpoint = DefaultSendEndpoint
	}
	if cfg.IIDEndpoint == "" {
		cfg.IIDEndpoint = DefaultIIDEndpoint
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxRetryAfter < 0 {
		cfg.MaxRetryAfter = 0
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
