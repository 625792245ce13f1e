package config

import "time"

// Config is the root configuration structure for the scout service.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, request limits, static assets, and CORS.
	Server ServerConfig `yaml:"server"`

	// Engine contains configuration for the conflict engine and the rules
	// catalog it is built from.
	Engine EngineConfig `yaml:"engine"`

	// History contains configuration for the analysis history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:5000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request.
	// Default: 10s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes limits the size of request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// StaticDir is the directory served for non-API paths. Empty disables
	// static file serving.
	// Default: "frontend"
	StaticDir string `yaml:"static_dir"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS serves HTTPS instead of plain HTTP.
	TLS TLSConfig `yaml:"tls"`

	// RateLimit throttles POST /api/analyze per client.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Auth requires an API key on the operator endpoints.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig protects /api/history, and optionally the metrics endpoint,
// with API keys. The analysis endpoint stays public.
type AuthConfig struct {
	// Enabled turns API key checks on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Keys are the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`

	// ProtectMetrics also requires a key for the metrics endpoint.
	ProtectMetrics bool `yaml:"protect_metrics"`
}

// APIKeyConfig is one accepted API key. Exactly one of Key and KeyEnv is
// set.
type APIKeyConfig struct {
	// Name identifies the key in logs.
	Name string `yaml:"name"`

	// Key is the literal key.
	Key string `yaml:"key"`

	// KeyEnv names the environment variable holding the key.
	KeyEnv string `yaml:"key_env"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// TLSConfig contains HTTPS configuration.
type TLSConfig struct {
	// Enabled switches the listener to TLS.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the lowest accepted protocol version, "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts the TLS 1.2 cipher suites. Empty uses Go's
	// defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate files are checked for
	// changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate allowed per client.
	// Default: 5
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is how many requests a client may send at once.
	// Default: 10
	Burst int `yaml:"burst"`

	// MaxConcurrent caps analyses in flight across all clients. 0 means
	// unlimited.
	MaxConcurrent int `yaml:"max_concurrent"`

	// TrustProxy identifies clients by the first X-Forwarded-For address
	// instead of the connection's remote address.
	TrustProxy bool `yaml:"trust_proxy"`

	// IdleTimeout is how long an idle client's state is kept.
	// Default: 10m
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. "*" allows any origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID", "traceparent"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID", "X-Trace-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// EngineConfig contains configuration for the conflict engine.
type EngineConfig struct {
	// RulesFile is the YAML rules catalog. Empty selects the built-in catalog.
	RulesFile string `yaml:"rules_file"`

	// Watch reloads the rules file when it changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a watched file is reloaded.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// MaxIngredients caps the list length accepted by the API.
	// Default: 200
	MaxIngredients int `yaml:"max_ingredients"`

	// Git sources the rules file from a Git repository instead of RulesFile.
	Git GitConfig `yaml:"git"`
}

// GitConfig configures a Git-hosted rules catalog.
type GitConfig struct {
	// Enabled determines if the Git source is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Repository URL (HTTPS, SSH, or a local path).
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path of the rules file within the repository.
	// Default: "rules.yaml"
	Path string `yaml:"path"`

	// LocalPath is where the repository is cloned.
	// Default: system temp directory
	LocalPath string `yaml:"local_path"`

	// Depth for shallow clones (0 = full clone).
	// Default: 0
	Depth int `yaml:"depth"`

	// CleanOnStart removes the local clone before cloning.
	// Default: false
	CleanOnStart bool `yaml:"clean_on_start"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`

	// Poll configures change detection.
	Poll GitPollConfig `yaml:"poll"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", or "none".
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication. Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication. Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// GitPollConfig configures change detection.
type GitPollConfig struct {
	// Interval between polls.
	// Default: 1m
	Interval time.Duration `yaml:"interval"`

	// Timeout for Git operations.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig contains configuration for the analysis history store.
type HistoryConfig struct {
	// Enabled controls whether analyses are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Driver selects the database/sql driver: "sqlite" (pure Go) or
	// "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains configuration for the asynchronous recorder.
type RecorderConfig struct {
	// BufferSize is the capacity of the pending-record queue.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// WriteTimeout bounds both enqueueing and each storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains configuration for history pruning.
type RetentionConfig struct {
	// Days is how long records are kept. 0 keeps records forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is the cron expression for pruning runs.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "scout"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "ingredient-scout"
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP/gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler is "always", "never", or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the "ratio" sampler (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
