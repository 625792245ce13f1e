package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetGlobalConfig() {
	configMutex.Lock()
	globalConfig = nil
	configMutex.Unlock()
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobalConfig()
	t.Cleanup(resetGlobalConfig)

	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  max_ingredients: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("GetConfig() = nil after Initialize")
	}
	if cfg.Engine.MaxIngredients != 12 {
		t.Errorf("MaxIngredients = %d, want 12", cfg.Engine.MaxIngredients)
	}

	// Later calls are no-ops.
	if err := Initialize("/nonexistent.yaml"); err != nil {
		t.Errorf("second Initialize() error = %v, want nil", err)
	}
	if GetConfig() != cfg {
		t.Error("second Initialize() replaced the configuration")
	}
}

func TestInitialize_Error(t *testing.T) {
	resetGlobalConfig()
	t.Cleanup(resetGlobalConfig)

	if err := Initialize("/nonexistent/scout.yaml"); err == nil {
		t.Error("Initialize() error = nil, want error")
	}
	if GetConfig() != nil {
		t.Error("GetConfig() != nil after failed Initialize")
	}
}

func TestSetConfigAndMustGetConfig(t *testing.T) {
	resetGlobalConfig()
	t.Cleanup(resetGlobalConfig)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustGetConfig() did not panic without configuration")
			}
		}()
		MustGetConfig()
	}()

	cfg := NewTestConfig().WithListenAddress("127.0.0.1:1234").Build()
	SetConfig(cfg)

	if got := MustGetConfig(); got != cfg {
		t.Errorf("MustGetConfig() = %p, want %p", got, cfg)
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobalConfig()
	t.Cleanup(resetGlobalConfig)

	original := NewTestConfig().Build()
	SetConfig(original)

	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen_address: \"127.0.0.1:6000\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:6000" {
		t.Errorf("ListenAddress = %q after reload", got)
	}

	reloaded := GetConfig()
	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: loud\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := ReloadConfig(path); err == nil {
		t.Error("ReloadConfig() error = nil, want validation error")
	}
	if GetConfig() != reloaded {
		t.Error("failed reload replaced the configuration")
	}
}

func TestGetConfig_Concurrent(t *testing.T) {
	resetGlobalConfig()
	t.Cleanup(resetGlobalConfig)

	SetConfig(NewTestConfig().Build())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				SetConfig(NewTestConfig().Build())
				return
			}
			if GetConfig() == nil {
				t.Error("GetConfig() = nil during concurrent access")
			}
		}(i)
	}
	wg.Wait()
}
