package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_NewFileDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stayguide.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if time.Duration(cfg.Data.TTL) != time.Hour {
		t.Errorf("expected default TTL 1h, got %v", time.Duration(cfg.Data.TTL))
	}
	if cfg.Data.Cities != "data/cities.json" {
		t.Errorf("unexpected cities path %q", cfg.Data.Cities)
	}
	if cfg.Request.Retries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Request.Retries)
	}
	if cfg.Server.Address == "" {
		t.Error("expected a default server address")
	}

	// Defaults written to disk.
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "base_url:") {
		t.Error("config file missing default values")
	}
}

func TestLoad_ExistingFileOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stayguide.yaml")
	err := os.WriteFile(configPath, []byte("data:\n  base_url: https://cdn.example.com\n  ttl: 30m\n"), 0o644)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.BaseURL != "https://cdn.example.com" {
		t.Errorf("base_url override lost: %q", cfg.Data.BaseURL)
	}
	if time.Duration(cfg.Data.TTL) != 30*time.Minute {
		t.Errorf("ttl override lost: %v", time.Duration(cfg.Data.TTL))
	}
	// Unset fields keep defaults.
	if cfg.Request.Retries != 3 {
		t.Errorf("expected default retries to survive merge, got %d", cfg.Request.Retries)
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("STAYGUIDE_DATA_URL", "https://env.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "stayguide.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.BaseURL != "https://env.example.com" {
		t.Errorf("env override not applied: %q", cfg.Data.BaseURL)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "stayguide.yaml")
	if err := os.WriteFile(configPath, []byte("data: [not a mapping"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
