package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/webhookrelay/relay-go/client"
)

var (
	ErrMissingCredentials = errors.New("config: RELAY_KEY and RELAY_SECRET must be set")
	ErrMissingBucket      = errors.New("config: RELAY_BUCKET must be set")
	ErrInvalidURL         = errors.New("config: relay url must be a ws:// or wss:// URL")
)

type Config struct {
	Relay   RelayConfig   `koanf:"relay"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
}

type RelayConfig struct {
	URL                 string `koanf:"url"`
	Key                 string `koanf:"key"`
	Secret              string `koanf:"secret"`
	Bucket              string `koanf:"bucket"`
	IgnoreUnknownEvents bool   `koanf:"ignore_unknown_events"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MetricsConfig struct {
	// Addr is the listen address for /metrics and /healthz. Empty disables the server.
	Addr string `koanf:"addr"`
}

type TracingConfig struct {
	Enabled bool `koanf:"enabled"`
}

// envKeys maps environment variables onto config keys.
var envKeys = map[string]string{
	"RELAY_KEY":                   "relay.key",
	"RELAY_SECRET":                "relay.secret",
	"RELAY_BUCKET":                "relay.bucket",
	"RELAY_URL":                   "relay.url",
	"RELAY_IGNORE_UNKNOWN_EVENTS": "relay.ignore_unknown_events",
	"RELAY_LOG_LEVEL":             "log.level",
	"RELAY_LOG_FORMAT":            "log.format",
	"RELAY_METRICS_ADDR":          "metrics.addr",
	"RELAY_TRACING":               "tracing.enabled",
}

var defaults = map[string]any{
	"relay.url":  client.DefaultURL,
	"log.level":  "info",
	"log.format": "text",
}

// Load reads the optional YAML file at path, then applies RELAY_* environment
// variables on top. The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("RELAY_", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	for key, val := range defaults {
		if !k.Exists(key) || k.String(key) == "" {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Relay.Key == "" || c.Relay.Secret == "" {
		return ErrMissingCredentials
	}
	if c.Relay.Bucket == "" {
		return ErrMissingBucket
	}

	u, err := url.Parse(c.Relay.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if scheme := strings.ToLower(u.Scheme); (scheme != "ws" && scheme != "wss") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.Relay.URL)
	}
	return nil
}

// Client converts the relay section into the session configuration.
func (c *Config) Client() client.Config {
	return client.Config{
		URL: c.Relay.URL,
		Credentials: client.Credentials{
			Key:    c.Relay.Key,
			Secret: c.Relay.Secret,
		},
		Bucket:              c.Relay.Bucket,
		IgnoreUnknownEvents: c.Relay.IgnoreUnknownEvents,
	}
}
