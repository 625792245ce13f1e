package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver "sqlite3"
	_ "modernc.org/sqlite"          // driver "sqlite"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
)

// Driver names accepted in SQLiteConfig.Driver.
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Driver is "sqlite" (modernc.org/sqlite) or "sqlite3"
	// (github.com/mattn/go-sqlite3).
	Driver string

	// Path is the database file path.
	Path string

	MaxOpenConns int
	MaxIdleConns int

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Driver:       config.DefaultSQLiteDriver,
		Path:         config.DefaultSQLitePath,
		MaxOpenConns: config.DefaultSQLiteMaxOpenConns,
		MaxIdleConns: config.DefaultSQLiteMaxIdleConns,
		WALMode:      config.DefaultSQLiteWALMode,
		BusyTimeout:  config.DefaultSQLiteBusyTimeout,
	}
}

// SQLiteConfigFrom converts the history.sqlite configuration section.
func SQLiteConfigFrom(c config.SQLiteConfig) SQLiteConfig {
	return SQLiteConfig{
		Driver:       c.Driver,
		Path:         c.Path,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
		WALMode:      c.WALMode,
		BusyTimeout:  c.BusyTimeout,
	}
}

// dsn applies the busy timeout through each driver's own connection
// parameters so every pooled connection gets it.
func (c SQLiteConfig) dsn() string {
	ms := c.BusyTimeout.Milliseconds()
	if c.Driver == DriverCGO {
		return fmt.Sprintf("%s?_busy_timeout=%d", c.Path, ms)
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", c.Path, ms)
}

// SQLiteStorage implements history.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and applies the schema. Zero config
// fields take the defaults.
func NewSQLiteStorage(cfg SQLiteConfig) (*SQLiteStorage, error) {
	def := DefaultSQLiteConfig()
	if cfg.Driver == "" {
		cfg.Driver = def.Driver
	}
	if cfg.Path == "" {
		return nil, history.NewStorageError(BackendSQLite, "open", errors.New("database path is required"))
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = def.MaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = def.MaxIdleConns
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = def.BusyTimeout
	}
	if cfg.Driver != DriverModernc && cfg.Driver != DriverCGO {
		return nil, history.NewStorageError(BackendSQLite, "open",
			fmt.Errorf("unknown driver %q (valid: %s, %s)", cfg.Driver, DriverModernc, DriverCGO))
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open(cfg.Driver, cfg.dsn())
	if err != nil {
		return nil, history.NewStorageError(BackendSQLite, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"driver", cfg.Driver,
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError(BackendSQLite, "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError(BackendSQLite, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError(BackendSQLite, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return history.NewStorageError(BackendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError(BackendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store inserts record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	ingredients, err := json.Marshal(nonNil(record.Ingredients))
	if err != nil {
		return history.NewStorageError(BackendSQLite, "store", err)
	}
	hits, err := json.Marshal(nonNil(record.KeywordHits))
	if err != nil {
		return history.NewStorageError(BackendSQLite, "store", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		record.ID, nullString(record.RequestID), record.RecordedAt.UnixNano(),
		string(ingredients), record.IngredientsHash,
		string(record.Status), record.RiskScore, record.Summary, nullString(string(record.MatchedRule)), string(hits),
		record.Engine, nullString(record.CatalogVersion),
	)
	if err != nil {
		return history.NewStorageError(BackendSQLite, "store", err)
	}
	return nil
}

// Query returns the matching records, newest first unless q asks for
// ascending order.
func (s *SQLiteStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := *q
	query.ApplyDefaults()

	where, args := buildWhereClause(&query)

	sqlQuery := selectColumns + where
	if query.SortOrder == history.SortAsc {
		sqlQuery += " ORDER BY recorded_at ASC, rowid ASC"
	} else {
		sqlQuery += " ORDER BY recorded_at DESC, rowid DESC"
	}
	sqlQuery += " LIMIT ? OFFSET ?"
	args = append(args, query.Limit, query.Offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError(BackendSQLite, "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, history.NewStorageError(BackendSQLite, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError(BackendSQLite, "query", err)
	}

	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	where, args := buildWhereClause(q)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses"+where, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError(BackendSQLite, "count", err)
	}
	return count, nil
}

// Delete removes the matching records.
func (s *SQLiteStorage) Delete(ctx context.Context, q *history.Query) (int64, error) {
	where, args := buildWhereClause(q)

	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses"+where, args...)
	if err != nil {
		return 0, history.NewStorageError(BackendSQLite, "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError(BackendSQLite, "delete", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError(BackendSQLite, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(BackendSQLite, "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause returns " WHERE ..." (or "") and its arguments.
func buildWhereClause(q *history.Query) (string, []any) {
	var conditions []string
	var args []any

	if q.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, q.Until.UnixNano())
	}
	if q.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Rule != "" {
		conditions = append(conditions, "matched_rule = ?")
		args = append(args, string(q.Rule))
	}
	if q.RequestID != "" {
		conditions = append(conditions, "request_id = ?")
		args = append(args, q.RequestID)
	}
	if q.IngredientsHash != "" {
		conditions = append(conditions, "ingredients_hash = ?")
		args = append(args, q.IngredientsHash)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*history.Record, error) {
	var (
		record                             history.Record
		requestID, matchedRule, catVersion sql.NullString
		recordedAt                         int64
		ingredients, hits, status          string
	)

	err := rows.Scan(
		&record.ID, &requestID, &recordedAt,
		&ingredients, &record.IngredientsHash,
		&status, &record.RiskScore, &record.Summary, &matchedRule, &hits,
		&record.Engine, &catVersion,
	)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.RecordedAt = time.Unix(0, recordedAt).UTC()
	record.Status = conflict.Status(status)
	record.MatchedRule = conflict.RuleID(matchedRule.String)
	record.CatalogVersion = catVersion.String

	if err := json.Unmarshal([]byte(ingredients), &record.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(hits), &record.KeywordHits); err != nil {
		return nil, fmt.Errorf("decode keyword hits: %w", err)
	}

	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
