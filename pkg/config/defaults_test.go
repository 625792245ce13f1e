package config

import (
	"reflect"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"server.listen_address", cfg.Server.ListenAddress, DefaultListenAddress},
		{"server.read_timeout", cfg.Server.ReadTimeout, DefaultReadTimeout},
		{"server.request_timeout", cfg.Server.RequestTimeout, DefaultRequestTimeout},
		{"server.max_body_bytes", cfg.Server.MaxBodyBytes, DefaultMaxBodyBytes},
		{"server.static_dir", cfg.Server.StaticDir, DefaultStaticDir},
		{"server.cors.allowed_origins", cfg.Server.CORS.AllowedOrigins, []string{"*"}},
		{"server.cors.max_age", cfg.Server.CORS.MaxAge, DefaultCORSMaxAge},
		{"server.tls.min_version", cfg.Server.TLS.MinVersion, DefaultTLSMinVersion},
		{"server.tls.reload_interval", cfg.Server.TLS.ReloadInterval, DefaultTLSReloadInterval},
		{"server.rate_limit.requests_per_second", cfg.Server.RateLimit.RequestsPerSecond, DefaultRateLimitRequestsPerSecond},
		{"server.rate_limit.burst", cfg.Server.RateLimit.Burst, DefaultRateLimitBurst},
		{"server.rate_limit.idle_timeout", cfg.Server.RateLimit.IdleTimeout, DefaultRateLimitIdleTimeout},
		{"engine.max_ingredients", cfg.Engine.MaxIngredients, DefaultEngineMaxIngredients},
		{"engine.debounce_interval", cfg.Engine.DebounceInterval, DefaultEngineDebounceInterval},
		{"engine.git.branch", cfg.Engine.Git.Branch, DefaultGitBranch},
		{"engine.git.auth.type", cfg.Engine.Git.Auth.Type, DefaultGitAuthType},
		{"history.backend", cfg.History.Backend, DefaultHistoryBackend},
		{"history.sqlite.driver", cfg.History.SQLite.Driver, DefaultSQLiteDriver},
		{"history.recorder.buffer_size", cfg.History.Recorder.BufferSize, DefaultRecorderBufferSize},
		{"history.retention.schedule", cfg.History.Retention.Schedule, DefaultRetentionSchedule},
		{"telemetry.logging.level", cfg.Telemetry.Logging.Level, DefaultLoggingLevel},
		{"telemetry.metrics.namespace", cfg.Telemetry.Metrics.Namespace, DefaultMetricsNamespace},
		{"telemetry.tracing.sampler", cfg.Telemetry.Tracing.Sampler, DefaultTracingSampler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "127.0.0.1:9000"
	cfg.Engine.MaxIngredients = 10
	cfg.History.SQLite.Driver = "sqlite3"

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("ListenAddress = %q, want explicit value", cfg.Server.ListenAddress)
	}
	if cfg.Engine.MaxIngredients != 10 {
		t.Errorf("MaxIngredients = %d, want 10", cfg.Engine.MaxIngredients)
	}
	if cfg.History.SQLite.Driver != "sqlite3" {
		t.Errorf("Driver = %q, want sqlite3", cfg.History.SQLite.Driver)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	first := &Config{}
	ApplyDefaults(first)

	second := &Config{}
	ApplyDefaults(second)
	ApplyDefaults(second)

	if !reflect.DeepEqual(first, second) {
		t.Error("ApplyDefaults is not idempotent")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if !cfg.Server.CORS.Enabled {
		t.Error("CORS.Enabled = false, want true")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if !cfg.History.SQLite.WALMode {
		t.Error("SQLite.WALMode = false, want true")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("Tracing.Enabled = true, want false")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(NewDefaultConfig()) error = %v", err)
	}
}
