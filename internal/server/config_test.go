package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/economic-loss/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.BodySizeBytes() <= 0 {
		t.Fatalf("expected positive default max body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Storage.Path == "" || cfg.Storage.Enabled {
		t.Fatalf("expected disabled storage with a default path, got %+v", cfg.Storage)
	}
	if cfg.Cache.Backend != "" || cfg.Cache.TTLSeconds != constants.DefaultCacheTTLSeconds {
		t.Fatalf("expected disabled cache with default TTL, got %+v", cfg.Cache)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
tables:
  path: /etc/economic-loss/tables.yaml
storage:
  enabled: true
  path: /var/lib/economic-loss/runs.db
cache:
  backend: redis
  address: redis:6379
  ttlSeconds: 60
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max body override, got %d", cfg.BodySizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.Tables.Path != "/etc/economic-loss/tables.yaml" {
		t.Fatalf("expected tables path override, got %s", cfg.Tables.Path)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Path != "/var/lib/economic-loss/runs.db" {
		t.Fatalf("expected storage override, got %+v", cfg.Storage)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Address != "redis:6379" || cfg.Cache.TTLSeconds != 60 {
		t.Fatalf("expected cache override, got %+v", cfg.Cache)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxBodySize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{input: "", expected: constants.DefaultMaxBodySizeBytes},
		{input: "1024", expected: 1024},
		{input: "512b", expected: 512},
		{input: "256K", expected: 256 * 1024},
		{input: "1m", expected: 1024 * 1024},
		{input: "3MB", expected: 3 * 1024 * 1024},
		{input: "2G", expected: 2 * 1024 * 1024 * 1024},
		{input: "  4096   ", expected: 4096},
		{input: "8 kb", expected: 8 * 1024},
		{input: "1TB", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-5K", wantErr: true},
		{input: "9223372036854775807G", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSize(%q) = %d, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Fatalf("ParseSize(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "server-config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("Address = %s, expected %s", cfg.Address, constants.DefaultServerAddress)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("BodySizeBytes() = %d, expected %d", cfg.BodySizeBytes(), constants.DefaultMaxBodySizeBytes)
	}
	if !cfg.Storage.Enabled || cfg.Cache.Backend != "memory" {
		t.Errorf("example should enable storage and the memory cache, got %+v / %+v", cfg.Storage, cfg.Cache)
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("non-positive size should be ignored, got %d", cfg.BodySizeBytes())
	}

	cfg.SetBodySizeBytes(4096)
	if cfg.BodySizeBytes() != 4096 || cfg.MaxBodySize != "4096" {
		t.Errorf("expected 4096 bytes, got %d (%s)", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
}
