package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8000)
	}
	if cfg.Transfer.MaxConcurrent != 5 {
		t.Errorf("Transfer.MaxConcurrent = %d, want %d", cfg.Transfer.MaxConcurrent, 5)
	}
	if cfg.Transfer.StatusRetention != 24*time.Hour {
		t.Errorf("Transfer.StatusRetention = %v, want 24h", cfg.Transfer.StatusRetention)
	}
	if len(cfg.Stores.Specs) != 2 {
		t.Fatalf("Stores.Specs = %v, want two default stores", cfg.Stores.Specs)
	}
	if !strings.HasPrefix(cfg.Stores.Specs[0], "source=sqlite://") {
		t.Errorf("Stores.Specs[0] = %q, want default sqlite source", cfg.Stores.Specs[0])
	}
	if cfg.Stores.SeedOnStart {
		t.Error("Stores.SeedOnStart should default to false")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("TRANSFER_MAX_CONCURRENT", "10")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("TRANSFER_MAX_CONCURRENT")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Transfer.MaxConcurrent != 10 {
		t.Errorf("Transfer.MaxConcurrent = %d, want %d", cfg.Transfer.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("TRANSFER_MAX_WAIT_TIME", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("TRANSFER_MAX_WAIT_TIME")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Transfer.MaxWaitTime != 90*time.Second {
		t.Errorf("Transfer.MaxWaitTime = %v, want %v", cfg.Transfer.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_StoreSpecs(t *testing.T) {
	os.Setenv("STORES", "src=sqlite://a.db, dst=postgres://localhost/d ")
	defer os.Unsetenv("STORES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Stores.Specs) != 2 {
		t.Fatalf("Stores.Specs = %v, want 2 entries", cfg.Stores.Specs)
	}
	if cfg.Stores.Specs[0] != "src=sqlite://a.db" {
		t.Errorf("Stores.Specs[0] = %q", cfg.Stores.Specs[0])
	}
	if cfg.Stores.Specs[1] != "dst=postgres://localhost/d" {
		t.Errorf("Stores.Specs[1] = %q", cfg.Stores.Specs[1])
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SERVER_PORT", "0"},
		{"SERVER_PORT", "notanumber"},
		{"TRANSFER_MAX_CONCURRENT", "-1"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
		{"STORES", "missing-equals"},
	}

	for _, tt := range tests {
		os.Setenv(tt.key, tt.value)
		_, err := Load()
		os.Unsetenv(tt.key)
		if err == nil {
			t.Errorf("Load() with %s=%q expected error", tt.key, tt.value)
		}
	}
}

func TestAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := c.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", got)
	}
	c.Host = ""
	if got := c.Addr(); got != ":8000" {
		t.Errorf("Addr() with empty host = %q", got)
	}
}
