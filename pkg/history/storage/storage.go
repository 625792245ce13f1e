package storage

import (
	"fmt"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/history"
)

// Backend names accepted in history.backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// New opens the backend selected by cfg.Backend.
func New(cfg config.HistoryConfig) (history.Storage, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendSQLite, "":
		return NewSQLiteStorage(SQLiteConfigFrom(cfg.SQLite))
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
