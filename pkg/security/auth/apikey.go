package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"sync"

	"ingredient-scout/scout/pkg/config"
)

// Validation errors.
var (
	ErrInvalidKey  = errors.New("invalid API key")
	ErrDisabledKey = errors.New("API key disabled")
)

// APIKeyValidator checks keys against a fixed set.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys []*KeyInfo
}

// NewAPIKeyValidator creates a validator over keys.
func NewAPIKeyValidator(keys []*KeyInfo) *APIKeyValidator {
	return &APIKeyValidator{keys: keys}
}

// KeysFromConfig resolves the configured keys, reading key_env entries
// from the environment. A referenced variable that is unset or empty is an
// error.
func KeysFromConfig(cfg config.AuthConfig) ([]*KeyInfo, error) {
	keys := make([]*KeyInfo, 0, len(cfg.Keys))
	for _, k := range cfg.Keys {
		value := k.Key
		if k.KeyEnv != "" {
			value = os.Getenv(k.KeyEnv)
			if value == "" {
				return nil, fmt.Errorf("API key %q: environment variable %s is not set", k.Name, k.KeyEnv)
			}
		}
		keys = append(keys, &KeyInfo{Name: k.Name, Key: value, Enabled: !k.Disabled})
	}
	return keys, nil
}

// Validate returns the info of key. Every configured key is compared so the
// time taken does not depend on which one matches.
func (v *APIKeyValidator) Validate(key string) (*KeyInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var match *KeyInfo
	for _, info := range v.keys {
		if subtle.ConstantTimeCompare([]byte(info.Key), []byte(key)) == 1 && match == nil {
			match = info
		}
	}

	if match == nil {
		return nil, ErrInvalidKey
	}
	if !match.Enabled {
		return nil, ErrDisabledKey
	}
	return match, nil
}

// Len returns the number of configured keys.
func (v *APIKeyValidator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}
