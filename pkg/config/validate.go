package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
		{"server.request_timeout", cfg.RequestTimeout},
	}
	for _, to := range timeouts {
		if to.value < 0 {
			errs = append(errs, FieldError{
				Field:   to.field,
				Message: "timeout must be positive",
			})
		}
	}

	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes > 100*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes exceeds reasonable limit (100MB)",
		})
	}

	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	errs = append(errs, validateTLS(&cfg.TLS)...)
	errs = append(errs, validateRateLimit(&cfg.RateLimit)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)

	return errs
}

// validateAuth validates API key configuration.
func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if len(cfg.Keys) == 0 {
		errs = append(errs, FieldError{
			Field:   "server.auth.keys",
			Message: "at least one API key is required when auth is enabled",
		})
	}

	seen := make(map[string]bool)
	for i, k := range cfg.Keys {
		field := fmt.Sprintf("server.auth.keys[%d]", i)
		if k.Name == "" {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: "key name is required",
			})
		} else if seen[k.Name] {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate key name %q", k.Name),
			})
		}
		seen[k.Name] = true

		if (k.Key == "") == (k.KeyEnv == "") {
			errs = append(errs, FieldError{
				Field:   field,
				Message: "exactly one of key and key_env must be set",
			})
		}
	}

	return errs
}

// validateTLS validates TLS configuration.
func validateTLS(cfg *TLSConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.cert_file",
			Message: "certificate file is required when TLS is enabled",
		})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.key_file",
			Message: "key file is required when TLS is enabled",
		})
	}
	if cfg.MinVersion != "1.2" && cfg.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q: must be '1.2' or '1.3'", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "server.tls.reload_interval",
			Message: "reload interval must be non-negative",
		})
	}

	return errs
}

// validateRateLimit validates rate limit configuration.
func validateRateLimit(cfg *RateLimitConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.RequestsPerSecond <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.requests_per_second",
			Message: "requests per second must be positive",
		})
	}
	if cfg.Burst < 1 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.burst",
			Message: "burst must be at least 1",
		})
	}
	if cfg.MaxConcurrent < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.max_concurrent",
			Message: "max concurrent must be non-negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.rate_limit.idle_timeout",
			Message: "idle timeout must be non-negative",
		})
	}

	return errs
}

// validateEngine validates engine configuration.
func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxIngredients < 1 {
		errs = append(errs, FieldError{
			Field:   "engine.max_ingredients",
			Message: "max ingredients must be at least 1",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.debounce_interval",
			Message: "debounce interval must be positive",
		})
	}
	if cfg.Watch && cfg.RulesFile == "" && !cfg.Git.Enabled {
		errs = append(errs, FieldError{
			Field:   "engine.watch",
			Message: "watch requires engine.rules_file",
		})
	}

	errs = append(errs, validateGit(&cfg.Git)...)

	return errs
}

// validateGit validates the Git rules source. Nothing is checked while it is
// disabled.
func validateGit(cfg *GitConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.Repository == "" {
		errs = append(errs, FieldError{
			Field:   "engine.git.repository",
			Message: "repository is required when git is enabled",
		})
	}
	if cfg.Branch == "" {
		errs = append(errs, FieldError{
			Field:   "engine.git.branch",
			Message: "branch is required when git is enabled",
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "engine.git.path",
			Message: "path is required when git is enabled",
		})
	} else if strings.HasPrefix(cfg.Path, "/") || strings.Contains(cfg.Path, "..") {
		errs = append(errs, FieldError{
			Field:   "engine.git.path",
			Message: "path must be relative to the repository root",
		})
	}
	if cfg.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.git.depth",
			Message: "depth must be non-negative",
		})
	}

	switch cfg.Auth.Type {
	case "none":
	case "token":
		if cfg.Auth.Token == "" {
			errs = append(errs, FieldError{
				Field:   "engine.git.auth.token",
				Message: "token is required when auth type is 'token'",
			})
		}
	case "ssh":
		if cfg.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "engine.git.auth.ssh_key_path",
				Message: "ssh key path is required when auth type is 'ssh'",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "engine.git.auth.type",
			Message: fmt.Sprintf("invalid auth type %q: must be 'none', 'token', or 'ssh'", cfg.Auth.Type),
		})
	}

	if cfg.Poll.Interval < time.Second {
		errs = append(errs, FieldError{
			Field:   "engine.git.poll.interval",
			Message: "poll interval must be at least 1s",
		})
	}
	if cfg.Poll.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "engine.git.poll.timeout",
			Message: "poll timeout must be positive",
		})
	}

	return errs
}

// validateHistory validates history configuration. Nothing is checked while
// history is disabled.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
		if !validDrivers[cfg.SQLite.Driver] {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 || cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.max_idle_conns",
				Message: "max idle connections must be between 0 and max open connections",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}

	if cfg.Recorder.BufferSize < 1 {
		errs = append(errs, FieldError{
			Field:   "history.recorder.buffer_size",
			Message: "buffer size must be at least 1",
		})
	}
	if cfg.Recorder.WriteTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.recorder.write_timeout",
			Message: "write timeout must be positive",
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 3650 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "retention days exceeds reasonable limit (3650 days / 10 years)",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "history.retention.schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.Schedule, err),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		} else if strings.HasPrefix(cfg.Metrics.Path, "/api/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must not be under /api/",
			})
		}
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "metrics namespace is required when metrics are enabled",
			})
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
