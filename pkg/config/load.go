package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SCOUT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the default configuration.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SCOUT_SECTION_FIELD (e.g., SCOUT_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The plain PORT variable is also honored: when set and
// SCOUT_SERVER_LISTEN_ADDRESS is not, the server listens on 0.0.0.0:$PORT.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.ListenAddress = "0.0.0.0:" + val
	}
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envDuration("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)
	envInt64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	envString("SERVER_STATIC_DIR", &cfg.Server.StaticDir)
	envBool("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	envBool("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)
	envString("SERVER_TLS_MIN_VERSION", &cfg.Server.TLS.MinVersion)
	envBool("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	envFloat("SERVER_RATE_LIMIT_REQUESTS_PER_SECOND", &cfg.Server.RateLimit.RequestsPerSecond)
	envInt("SERVER_RATE_LIMIT_BURST", &cfg.Server.RateLimit.Burst)
	envInt("SERVER_RATE_LIMIT_MAX_CONCURRENT", &cfg.Server.RateLimit.MaxConcurrent)
	envBool("SERVER_RATE_LIMIT_TRUST_PROXY", &cfg.Server.RateLimit.TrustProxy)
	envBool("SERVER_AUTH_ENABLED", &cfg.Server.Auth.Enabled)
	envBool("SERVER_AUTH_PROTECT_METRICS", &cfg.Server.Auth.ProtectMetrics)

	// Engine overrides
	envString("ENGINE_RULES_FILE", &cfg.Engine.RulesFile)
	envBool("ENGINE_WATCH", &cfg.Engine.Watch)
	envDuration("ENGINE_DEBOUNCE_INTERVAL", &cfg.Engine.DebounceInterval)
	envInt("ENGINE_MAX_INGREDIENTS", &cfg.Engine.MaxIngredients)
	envBool("ENGINE_GIT_ENABLED", &cfg.Engine.Git.Enabled)
	envString("ENGINE_GIT_REPOSITORY", &cfg.Engine.Git.Repository)
	envString("ENGINE_GIT_BRANCH", &cfg.Engine.Git.Branch)
	envString("ENGINE_GIT_PATH", &cfg.Engine.Git.Path)
	envString("ENGINE_GIT_LOCAL_PATH", &cfg.Engine.Git.LocalPath)
	envString("ENGINE_GIT_AUTH_TYPE", &cfg.Engine.Git.Auth.Type)
	envString("ENGINE_GIT_AUTH_TOKEN", &cfg.Engine.Git.Auth.Token)
	envString("ENGINE_GIT_AUTH_SSH_KEY_PATH", &cfg.Engine.Git.Auth.SSHKeyPath)
	envString("ENGINE_GIT_AUTH_SSH_KEY_PASSPHRASE", &cfg.Engine.Git.Auth.SSHKeyPassphrase)
	envDuration("ENGINE_GIT_POLL_INTERVAL", &cfg.Engine.Git.Poll.Interval)

	// History overrides
	envBool("HISTORY_ENABLED", &cfg.History.Enabled)
	envString("HISTORY_BACKEND", &cfg.History.Backend)
	envString("HISTORY_SQLITE_DRIVER", &cfg.History.SQLite.Driver)
	envString("HISTORY_SQLITE_PATH", &cfg.History.SQLite.Path)
	envInt("HISTORY_RETENTION_DAYS", &cfg.History.Retention.Days)
	envInt64("HISTORY_RETENTION_MAX_RECORDS", &cfg.History.Retention.MaxRecords)
	envString("HISTORY_RETENTION_SCHEDULE", &cfg.History.Retention.Schedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

// Unparseable values are ignored and the previous value is kept.

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envInt64(key string, dst *int64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
