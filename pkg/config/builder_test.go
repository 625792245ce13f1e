package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig creates a new ConfigBuilder whose configuration is valid as is.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: NewDefaultConfig()}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

func (b *ConfigBuilder) WithRulesFile(path string, watch bool) *ConfigBuilder {
	b.cfg.Engine.RulesFile = path
	b.cfg.Engine.Watch = watch
	return b
}

func (b *ConfigBuilder) WithGit(repo, path string) *ConfigBuilder {
	b.cfg.Engine.Git.Enabled = true
	b.cfg.Engine.Git.Repository = repo
	b.cfg.Engine.Git.Path = path
	return b
}

func (b *ConfigBuilder) WithHistory(backend string) *ConfigBuilder {
	b.cfg.History.Enabled = true
	b.cfg.History.Backend = backend
	return b
}

func (b *ConfigBuilder) WithRetention(days int, schedule string) *ConfigBuilder {
	b.cfg.History.Retention.Days = days
	b.cfg.History.Retention.Schedule = schedule
	return b
}

func (b *ConfigBuilder) WithTracing(endpoint string, ratio float64) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = true
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	b.cfg.Telemetry.Tracing.Sampler = "ratio"
	b.cfg.Telemetry.Tracing.SampleRatio = ratio
	return b
}

func (b *ConfigBuilder) WithRequestTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Server.RequestTimeout = d
	return b
}
