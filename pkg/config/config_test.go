package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/webhookrelay/relay-go/client"
)

// clearEnv unsets every RELAY_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range envKeys {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_KEY", "key-1")
	t.Setenv("RELAY_SECRET", "secret-1")
	t.Setenv("RELAY_BUCKET", "bucket-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Relay.Key != "key-1" || cfg.Relay.Secret != "secret-1" || cfg.Relay.Bucket != "bucket-1" {
		t.Errorf("relay = %+v", cfg.Relay)
	}
	if cfg.Relay.URL != client.DefaultURL {
		t.Errorf("url = %q, want default", cfg.Relay.URL)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Addr != "" || cfg.Tracing.Enabled {
		t.Errorf("metrics/tracing should be off by default: %+v %+v", cfg.Metrics, cfg.Tracing)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
relay:
  url: ws://localhost:9000/v1/socket
  key: file-key
  secret: file-secret
  bucket: file-bucket
  ignore_unknown_events: true
log:
  level: debug
  format: json
metrics:
  addr: 127.0.0.1:9100
`)
	t.Setenv("RELAY_BUCKET", "env-bucket")
	t.Setenv("RELAY_TRACING", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Relay.Bucket != "env-bucket" {
		t.Errorf("bucket = %q, want env override", cfg.Relay.Bucket)
	}
	if cfg.Relay.Key != "file-key" || cfg.Relay.URL != "ws://localhost:9000/v1/socket" {
		t.Errorf("relay = %+v", cfg.Relay)
	}
	if !cfg.Relay.IgnoreUnknownEvents {
		t.Error("ignore_unknown_events not loaded from file")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9100" {
		t.Errorf("metrics addr = %q", cfg.Metrics.Addr)
	}
	if !cfg.Tracing.Enabled {
		t.Error("RELAY_TRACING=true not applied")
	}

	cc := cfg.Client()
	if cc.Bucket != "env-bucket" || cc.Credentials.Key != "file-key" || cc.Credentials.Secret != "file-secret" || !cc.IgnoreUnknownEvents {
		t.Errorf("Client() = %+v", cc)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{
			name: "nothing set",
			env:  map[string]string{},
			want: ErrMissingCredentials,
		},
		{
			name: "empty secret",
			env:  map[string]string{"RELAY_KEY": "k", "RELAY_SECRET": "", "RELAY_BUCKET": "b"},
			want: ErrMissingCredentials,
		},
		{
			name: "missing bucket",
			env:  map[string]string{"RELAY_KEY": "k", "RELAY_SECRET": "s"},
			want: ErrMissingBucket,
		},
		{
			name: "empty bucket",
			env:  map[string]string{"RELAY_KEY": "k", "RELAY_SECRET": "s", "RELAY_BUCKET": ""},
			want: ErrMissingBucket,
		},
		{
			name: "http url",
			env:  map[string]string{"RELAY_KEY": "k", "RELAY_SECRET": "s", "RELAY_BUCKET": "b", "RELAY_URL": "https://my.webhookrelay.com/v1/socket"},
			want: ErrInvalidURL,
		},
		{
			name: "url without host",
			env:  map[string]string{"RELAY_KEY": "k", "RELAY_SECRET": "s", "RELAY_BUCKET": "b", "RELAY_URL": "wss:///v1/socket"},
			want: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
