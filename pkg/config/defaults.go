package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:5000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultStaticDir       = "frontend"

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600

	// TLS defaults
	DefaultTLSMinVersion     = "1.3"
	DefaultTLSReloadInterval = 5 * time.Minute

	// Rate limit defaults
	DefaultRateLimitRequestsPerSecond = 5.0
	DefaultRateLimitBurst             = 10
	DefaultRateLimitIdleTimeout       = 10 * time.Minute

	// Engine defaults
	DefaultEngineDebounceInterval = 250 * time.Millisecond
	DefaultEngineMaxIngredients   = 200
	DefaultGitBranch              = "main"
	DefaultGitPath                = "rules.yaml"
	DefaultGitAuthType            = "none"
	DefaultGitPollInterval        = time.Minute
	DefaultGitPollTimeout         = 30 * time.Second

	// History defaults
	DefaultHistoryEnabled       = false
	DefaultHistoryBackend       = "sqlite"
	DefaultSQLiteDriver         = "sqlite"
	DefaultSQLitePath           = "data/history.db"
	DefaultSQLiteMaxOpenConns   = 10
	DefaultSQLiteMaxIdleConns   = 5
	DefaultSQLiteWALMode        = true
	DefaultSQLiteBusyTimeout    = 5 * time.Second
	DefaultRecorderBufferSize   = 1000
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRetentionDays        = 30
	DefaultRetentionSchedule    = "0 3 * * *"
	DefaultRetentionMaxRecords  = int64(0)

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "scout"
	DefaultTracingEnabled     = false
	DefaultTracingServiceName = "ingredient-scout"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
)

// NewDefaultConfig returns a configuration with every default applied,
// including the boolean options whose default is true. LoadConfig decodes
// YAML on top of it so that an explicit "false" in the file is kept.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.History.Enabled = DefaultHistoryEnabled
	cfg.History.SQLite.WALMode = DefaultSQLiteWALMode
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyEngineDefaults(&cfg.Engine)
	applyHistoryDefaults(&cfg.History)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.StaticDir == "" {
		s.StaticDir = DefaultStaticDir
	}

	cors := &s.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization", "X-API-Key", "X-Request-ID", "traceparent"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID", "X-Trace-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}

	if s.TLS.MinVersion == "" {
		s.TLS.MinVersion = DefaultTLSMinVersion
	}
	if s.TLS.ReloadInterval == 0 {
		s.TLS.ReloadInterval = DefaultTLSReloadInterval
	}

	rl := &s.RateLimit
	if rl.RequestsPerSecond == 0 {
		rl.RequestsPerSecond = DefaultRateLimitRequestsPerSecond
	}
	if rl.Burst == 0 {
		rl.Burst = DefaultRateLimitBurst
	}
	if rl.IdleTimeout == 0 {
		rl.IdleTimeout = DefaultRateLimitIdleTimeout
	}
}

func applyEngineDefaults(e *EngineConfig) {
	if e.DebounceInterval == 0 {
		e.DebounceInterval = DefaultEngineDebounceInterval
	}
	if e.MaxIngredients == 0 {
		e.MaxIngredients = DefaultEngineMaxIngredients
	}

	g := &e.Git
	if g.Branch == "" {
		g.Branch = DefaultGitBranch
	}
	if g.Path == "" {
		g.Path = DefaultGitPath
	}
	if g.Auth.Type == "" {
		g.Auth.Type = DefaultGitAuthType
	}
	if g.Poll.Interval == 0 {
		g.Poll.Interval = DefaultGitPollInterval
	}
	if g.Poll.Timeout == 0 {
		g.Poll.Timeout = DefaultGitPollTimeout
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Backend == "" {
		h.Backend = DefaultHistoryBackend
	}
	if h.SQLite.Driver == "" {
		h.SQLite.Driver = DefaultSQLiteDriver
	}
	if h.SQLite.Path == "" {
		h.SQLite.Path = DefaultSQLitePath
	}
	if h.SQLite.MaxOpenConns == 0 {
		h.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if h.SQLite.MaxIdleConns == 0 {
		h.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if h.SQLite.BusyTimeout == 0 {
		h.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if h.Recorder.BufferSize == 0 {
		h.Recorder.BufferSize = DefaultRecorderBufferSize
	}
	if h.Recorder.WriteTimeout == 0 {
		h.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if h.Retention.Days == 0 {
		h.Retention.Days = DefaultRetentionDays
	}
	if h.Retention.Schedule == "" {
		h.Retention.Schedule = DefaultRetentionSchedule
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.Endpoint == "" {
		t.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}
	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
}
