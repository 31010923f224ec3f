package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Mirror != "https://rezka.ag" {
		t.Errorf("default mirror = %q, want https://rezka.ag", cfg.Mirror)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("default timeout = %v, want 15s", cfg.Timeout())
	}
	if !cfg.InsecureSkipVerify {
		t.Error("default insecure_skip_verify should be true")
	}
	if !cfg.ResolveMirror {
		t.Error("default resolve_mirror should be true")
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty mirror", func(c *Config) { c.Mirror = "" }, true},
		{"mirror without scheme", func(c *Config) { c.Mirror = "rezka.ag" }, true},
		{"ftp mirror", func(c *Config) { c.Mirror = "ftp://rezka.ag" }, true},
		{"http mirror", func(c *Config) { c.Mirror = "http://rezka.ag" }, false},
		{"no bootstrap", func(c *Config) { c.BootstrapURL = "" }, false},
		{"bad bootstrap", func(c *Config) { c.BootstrapURL = "mirror.txt" }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
		{"huge timeout", func(c *Config) { c.TimeoutSeconds = 301 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, true},
		{"json logs", func(c *Config) { c.Logging.Format = "json" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	content := `
mirror = "https://hdrezka.me"
timeout_seconds = 30
resolve_mirror = false
history = false

[logging]
level = "debug"
format = "json"
`
	dir := filepath.Join(tmpDir, "lfilms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mirror != "https://hdrezka.me" {
		t.Errorf("mirror = %q, want https://hdrezka.me", cfg.Mirror)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout())
	}
	if cfg.ResolveMirror {
		t.Error("resolve_mirror should be false")
	}
	if cfg.History {
		t.Error("history should be false")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v, want debug/json", cfg.Logging)
	}
	// Keys absent from the file keep their defaults.
	if !cfg.InsecureSkipVerify {
		t.Error("insecure_skip_verify should keep its default")
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("max_backups = %d, want default 3", cfg.Logging.MaxBackups)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Mirror != Default().Mirror {
		t.Errorf("missing file should return defaults, got mirror = %q", cfg.Mirror)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	for _, content := range []string{
		`mirror = "not a url"`,
		`timeout_seconds = "fast"`,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Errorf("LoadFile(%q) should fail", content)
		}
	}
}

func TestStorePath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	path, err := StorePath()
	if err != nil {
		t.Fatalf("StorePath() error: %v", err)
	}
	if want := filepath.Join(tmpDir, "lfilms", "store.db"); path != want {
		t.Errorf("got %q, want %q", path, want)
	}
}

func TestInitLoggerWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	file := filepath.Join(t.TempDir(), "logs", "lfilms.log")
	logger, err := InitLogger(LoggingConfig{Level: "info", Format: "json", File: file, MaxSize: 1}, false)
	if err != nil {
		t.Fatalf("InitLogger() error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("mirror updated", "to", "https://rezka.ag")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(out, `"msg":"mirror updated"`) {
		t.Errorf("json record missing, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
