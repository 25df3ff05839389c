package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type YamlProxyConfig struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// YamlConfig is the structure that mirrors a raw config.yaml file.
type YamlConfig struct {
	APIKey                string          `yaml:"api_key"`
	SendEndpoint          string          `yaml:"send_endpoint"`
	IIDEndpoint           string          `yaml:"iid_endpoint"`
	Proxy                 YamlProxyConfig `yaml:"proxy"`
	RequestTimeoutSeconds int             `yaml:"request_timeout_seconds"`
	// MaxRetryAfter is a pointer so an explicit zero (never honor
	// Retry-After) is distinguishable from an absent key.
	MaxRetryAfter *int `yaml:"max_retry_after"`
}

// LoadConfigFromFile reads a YAML config file, maps it to a Config and
// applies environment variable overrides on top.
func LoadConfigFromFile(path string, logger *slog.Logger) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var yamlCfg YamlConfig
	if err := yaml.Unmarshal(raw, &yamlCfg); err != nil {
		return nil, fmt.Errorf("unmarshaling yaml config: %w", err)
	}

	baseCfg, err := NewConfigFromYaml(&yamlCfg, logger)
	if err != nil {
		return nil, err
	}
	return UpdateConfigWithEnvOverrides(baseCfg, logger)
}

// NewConfigFromYaml converts the YamlConfig into a clean Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := New(baseCfg.APIKey)
	if baseCfg.SendEndpoint != "" {
		cfg.SendEndpoint = baseCfg.SendEndpoint
	}
	if baseCfg.IIDEndpoint != "" {
		cfg.IIDEndpoint = baseCfg.IIDEndpoint
	}
	if baseCfg.Proxy.HTTP != "" || baseCfg.Proxy.HTTPS != "" {
		cfg.Proxies = map[string]string{}
		if baseCfg.Proxy.HTTP != "" {
			cfg.Proxies["http"] = baseCfg.Proxy.HTTP
		}
		if baseCfg.Proxy.HTTPS != "" {
			cfg.Proxies["https"] = baseCfg.Proxy.HTTPS
		}
	}
	if baseCfg.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(baseCfg.RequestTimeoutSeconds) * time.Second
	}
	if baseCfg.MaxRetryAfter != nil && *baseCfg.MaxRetryAfter >= 0 {
		cfg.MaxRetryAfter = *baseCfg.MaxRetryAfter
	}

	logger.Debug("YAML config mapping complete",
		"send_endpoint", cfg.SendEndpoint,
		"iid_endpoint", cfg.IIDEndpoint,
	)

	return cfg, nil
}
