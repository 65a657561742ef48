package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"stayguide/pkg/config"
)

func testLogConfig(dir string) *config.LogConfig {
	return &config.LogConfig{
		Server: config.LogSettings{
			Path:  filepath.Join(dir, "server.log"),
			Level: "DEBUG",
		},
		Requests: config.LogSettings{
			Path:  filepath.Join(dir, "requests.log"),
			Level: "INFO",
		},
	}
}

func TestInit(t *testing.T) {
	cfg := testLogConfig(t.TempDir())

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(cfg.Server.Path); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}
	if _, err := os.Stat(cfg.Requests.Path); os.IsNotExist(err) {
		t.Error("Request log file not created")
	}
	if RequestLogger == nil {
		t.Error("RequestLogger was not initialized")
	}
}

func TestInit_RotatesExistingLogs(t *testing.T) {
	dir := t.TempDir()
	cfg := testLogConfig(dir)

	if err := os.WriteFile(cfg.Server.Path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	old, err := os.ReadFile(cfg.Server.Path + ".old")
	if err != nil {
		t.Fatalf("rotated log missing: %v", err)
	}
	if string(old) != "previous run\n" {
		t.Errorf("rotated content = %q", old)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
