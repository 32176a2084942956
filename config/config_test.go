package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Expansion.MaxDepth != 0 {
		t.Errorf("expected unbounded max depth, got %d", cfg.Expansion.MaxDepth)
	}
	if !cfg.Expansion.Validation() {
		t.Error("expected instance validation by default")
	}
	if cfg.Fetch.Retry.MaxAttempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", cfg.Fetch.Retry.MaxAttempts)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative max depth",
			modify:  func(c *Config) { c.Expansion.MaxDepth = -1 },
			wantErr: true,
		},
		{
			name:    "negative max rounds",
			modify:  func(c *Config) { c.Fetch.MaxRounds = -1 },
			wantErr: true,
		},
		{
			name:    "invalid include pattern",
			modify:  func(c *Config) { c.Fetch.Include = []string{"http://example.com/[a"} },
			wantErr: true,
		},
		{
			name:    "valid exclude pattern",
			modify:  func(c *Config) { c.Fetch.Exclude = []string{"http://example.com/**"} },
			wantErr: false,
		},
		{
			name: "max delay below initial delay",
			modify: func(c *Config) {
				c.Fetch.Retry.InitialDelay = time.Second
				c.Fetch.Retry.MaxDelay = time.Millisecond
			},
			wantErr: true,
		},
		{
			name:    "empty namespace",
			modify:  func(c *Config) { c.Prefixes = map[string]string{"ex": ""} },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
expansion:
  max_depth: 64
  validate_instances: false
fetch:
  include:
    - "http://tpl.ottr.xyz/**"
  max_rounds: 10
  retry:
    max_attempts: 5
    initial_delay: 50ms
    max_delay: 2s
    multiplier: 1.5
prefixes:
  ex: "http://example.com/"
log_level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Expansion.MaxDepth != 64 {
		t.Errorf("expected max depth 64, got %d", cfg.Expansion.MaxDepth)
	}
	if cfg.Expansion.Validation() {
		t.Error("expected instance validation to be disabled")
	}
	if len(cfg.Fetch.Include) != 1 {
		t.Errorf("expected 1 include pattern, got %d", len(cfg.Fetch.Include))
	}
	if cfg.Fetch.MaxRounds != 10 {
		t.Errorf("expected max rounds 10, got %d", cfg.Fetch.MaxRounds)
	}
	policy := cfg.Fetch.RetryPolicy()
	if policy.MaxAttempts != 5 || policy.InitialDelay != 50*time.Millisecond || policy.MaxDelay != 2*time.Second {
		t.Errorf("unexpected retry policy %+v", policy)
	}
	if policy.Multiplier != 1.5 {
		t.Errorf("expected multiplier 1.5, got %f", policy.Multiplier)
	}
	if cfg.Prefixes["ex"] != "http://example.com/" {
		t.Errorf("expected ex prefix, got %q", cfg.Prefixes["ex"])
	}
	if level, _ := ParseLogLevel(cfg.LogLevel); level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Parse([]byte("expansion: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Prefixes = map[string]string{"ex": "http://example.com/"}
	disabled := false
	override := &Config{
		Expansion: ExpansionConfig{
			MaxDepth:          8,
			ValidateInstances: &disabled,
		},
		Fetch: FetchConfig{
			Exclude: []string{"http://example.com/private/**"},
		},
		Prefixes: map[string]string{"foaf": "http://xmlns.com/foaf/0.1/"},
	}

	base.Merge(override)

	if base.Expansion.MaxDepth != 8 {
		t.Errorf("expected max depth 8, got %d", base.Expansion.MaxDepth)
	}
	if base.Expansion.Validation() {
		t.Error("expected validation to be disabled")
	}
	// Retry should remain from base since override didn't set it
	if base.Fetch.Retry.MaxAttempts != 3 {
		t.Errorf("expected retry attempts to remain default, got %d", base.Fetch.Retry.MaxAttempts)
	}
	if len(base.Prefixes) != 2 {
		t.Errorf("expected prefixes to be combined, got %v", base.Prefixes)
	}
	if base.LogLevel != "info" {
		t.Errorf("expected log level to remain info, got %s", base.LogLevel)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Expansion.MaxDepth = 32

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Expansion.MaxDepth != 32 {
		t.Errorf("expected max depth 32, got %d", loaded.Expansion.MaxDepth)
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	userDir := filepath.Join(home, UserConfigDir)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	user := "log_level: debug\nexpansion:\n  max_depth: 16\n"
	if err := os.WriteFile(filepath.Join(userDir, UserConfigFile), []byte(user), 0644); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte("fetch:\n  max_rounds: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	explicit := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(explicit, []byte("expansion:\n  max_depth: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected user log level debug to survive, got %s", cfg.LogLevel)
	}
	if cfg.Fetch.MaxRounds != 4 {
		t.Errorf("expected project max rounds 4, got %d", cfg.Fetch.MaxRounds)
	}
	if cfg.Expansion.MaxDepth != 2 {
		t.Errorf("expected explicit max depth 2, got %d", cfg.Expansion.MaxDepth)
	}
	if cfg.Fetch.Retry.MaxAttempts != 3 {
		t.Errorf("expected default retry attempts, got %d", cfg.Fetch.Retry.MaxAttempts)
	}

	if _, err := NewLoader(nil).Load(filepath.Join(project, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()

	cfg.NewLogger(&buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output at info level: %q", buf.String())
	}

	cfg.LogLevel = "debug"
	cfg.NewLogger(&buf).Debug("shown", "iri", "http://example.com/T")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}
