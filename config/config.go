// Package config resolves the base URL and credential the client runs with.
// Sources, lowest precedence first: built-in defaults, a YAML file, the
// process environment (after loading a .env file when one exists).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/reoring/billing-go/option"
)

// Environment variable names.
const (
	EnvAPIKey  = "BILLING_API_KEY"
	EnvBaseURL = "BILLING_BASE_URL"
	EnvTimeout = "BILLING_TIMEOUT"
	EnvConfig  = "BILLING_CONFIG"
)

// Config is the resolved client configuration.
type Config struct {
	BaseURL   string            `yaml:"base_url"`
	APIKey    string            `yaml:"api_key"`
	Timeout   time.Duration     `yaml:"timeout"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`
}

type loadOptions struct {
	path     string
	envFiles []string
	getenv   func(string) string
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithFile reads the YAML file at path instead of $BILLING_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithEnvFiles loads the given dotenv files instead of ./.env.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) { o.envFiles = files }
}

// WithGetenv replaces os.Getenv, mainly for tests.
func WithGetenv(fn func(string) string) LoadOption {
	return func(o *loadOptions) { o.getenv = fn }
}

// Load resolves the configuration.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&o)
	}
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load(o.envFiles...)

	cfg := &Config{BaseURL: option.DefaultBaseURL}
	path := firstNonEmpty(o.path, strings.TrimSpace(o.getenv(EnvConfig)))
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.BaseURL = firstNonEmpty(strings.TrimSpace(o.getenv(EnvBaseURL)), cfg.BaseURL, option.DefaultBaseURL)
	cfg.APIKey = firstNonEmpty(strings.TrimSpace(o.getenv(EnvAPIKey)), cfg.APIKey)
	if raw := strings.TrimSpace(o.getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// decodeYAML rejects unknown keys so typos surface instead of silently
// falling back to defaults.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Options converts the configuration into client options.
func (c *Config) Options() []option.RequestOption {
	opts := []option.RequestOption{option.WithBaseURL(c.BaseURL)}
	if c.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.APIKey))
	}
	if c.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(c.Timeout))
	}
	if c.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(c.UserAgent))
	}
	for k, v := range c.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
