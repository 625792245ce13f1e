package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
  read_timeout: "20s"
  cors:
    enabled: false
engine:
  rules_file: "rules.yaml"
  watch: true
  max_ingredients: 50
history:
  enabled: true
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, "127.0.0.1:8080")
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("ReadTimeout = %v, want 20s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default %v", cfg.Server.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Server.CORS.Enabled {
		t.Error("CORS.Enabled = true, want explicit false kept")
	}
	if !cfg.Engine.Watch || cfg.Engine.RulesFile != "rules.yaml" || cfg.Engine.MaxIngredients != 50 {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if !cfg.History.Enabled || cfg.History.Backend != "memory" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want explicit false kept")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/scout.yaml")
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: [\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil, want parse error")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  logging:
    level: verbose
history:
  enabled: true
  backend: postgres
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want ValidationError in chain", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2: %v", len(verr.Errors), verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8080"
engine:
  max_ingredients: 50
`)

	t.Setenv("SCOUT_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")
	t.Setenv("SCOUT_ENGINE_MAX_INGREDIENTS", "75")
	t.Setenv("SCOUT_HISTORY_ENABLED", "true")
	t.Setenv("SCOUT_HISTORY_BACKEND", "memory")
	t.Setenv("SCOUT_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("SCOUT_SERVER_REQUEST_TIMEOUT", "3s")
	t.Setenv("SCOUT_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("ListenAddress = %q, want env override", cfg.Server.ListenAddress)
	}
	if cfg.Engine.MaxIngredients != 75 {
		t.Errorf("MaxIngredients = %d, want 75", cfg.Engine.MaxIngredients)
	}
	if !cfg.History.Enabled || cfg.History.Backend != "memory" {
		t.Errorf("History = %+v, want enabled memory backend", cfg.History)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.Server.RequestTimeout)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("SampleRatio = %v, want 0.25", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides_Port(t *testing.T) {
	t.Setenv("PORT", "8081")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8081" {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, "0.0.0.0:8081")
	}

	t.Setenv("SCOUT_SERVER_LISTEN_ADDRESS", "127.0.0.1:7000")
	cfg, err = LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("ListenAddress = %q, want SCOUT_ override to win over PORT", cfg.Server.ListenAddress)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("SCOUT_ENGINE_MAX_INGREDIENTS", "lots")
	t.Setenv("SCOUT_HISTORY_ENABLED", "maybe")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Engine.MaxIngredients != DefaultEngineMaxIngredients {
		t.Errorf("MaxIngredients = %d, want default", cfg.Engine.MaxIngredients)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want unparseable override ignored")
	}
}

func TestLoadConfigWithEnvOverrides_RevalidatesOverrides(t *testing.T) {
	t.Setenv("SCOUT_TELEMETRY_LOGGING_FORMAT", "xml")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("LoadConfigWithEnvOverrides() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("error = %v, want mention of environment overrides", err)
	}
}
