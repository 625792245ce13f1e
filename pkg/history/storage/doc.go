// Package storage provides the history storage backends.
//
//   - MemoryStorage keeps records in process memory. It is used in tests
//     and for short-lived deployments where history need not survive a
//     restart.
//   - SQLiteStorage persists records in a SQLite database through either
//     the pure Go driver (modernc.org/sqlite, driver name "sqlite") or the
//     cgo driver (github.com/mattn/go-sqlite3, driver name "sqlite3").
//
// New selects a backend from config.HistoryConfig.
package storage
