package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig is the process-wide configuration.
	globalConfig *Config

	// configMutex guards globalConfig.
	configMutex sync.RWMutex

	// initOnce makes Initialize run at most once.
	initOnce sync.Once
)

// Initialize loads the configuration at path, with environment overrides, and
// installs it as the process-wide configuration. Only the first call has any
// effect; later calls return nil without reloading. An empty path installs the
// defaults plus environment overrides.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		SetConfig(cfg)
	})

	return initErr
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize or SetConfig.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Commands that load their
// configuration explicitly, and tests, use it instead of Initialize.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig re-reads path and replaces the process-wide configuration. On
// error the current configuration is kept.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// MustGetConfig is like GetConfig but panics when no configuration is
// installed.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
