package history

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a storage backend after Close.
var ErrClosed = errors.New("history storage closed")

// StorageError is returned by storage backends.
type StorageError struct {
	Backend   string // "memory" or "sqlite"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// QueryError reports an invalid query.
type QueryError struct {
	Query *Query
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewQueryError creates a QueryError.
func NewQueryError(q *Query, cause error) *QueryError {
	return &QueryError{Query: q, Cause: cause}
}

// RecorderError is returned when a record could not be queued.
type RecorderError struct {
	RecordID string
	Cause    error
}

func (e *RecorderError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("recorder error [record_id=%s]: %v", e.RecordID, e.Cause)
	}
	return fmt.Sprintf("recorder error: %v", e.Cause)
}

func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// NewRecorderError creates a RecorderError.
func NewRecorderError(recordID string, cause error) *RecorderError {
	return &RecorderError{RecordID: recordID, Cause: cause}
}

// RetentionError is returned when pruning fails.
type RetentionError struct {
	RetentionDays int
	MaxRecords    int64
	Cause         error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [retention_days=%d, max_records=%d]: %v", e.RetentionDays, e.MaxRecords, e.Cause)
}

func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a RetentionError.
func NewRetentionError(days int, maxRecords int64, cause error) *RetentionError {
	return &RetentionError{RetentionDays: days, MaxRecords: maxRecords, Cause: cause}
}

// ExportError is returned when records could not be exported.
type ExportError struct {
	Format  string // "csv" or "json"
	Records int    // records written before the failure
	Cause   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, records=%d]: %v", e.Format, e.Records, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates an ExportError.
func NewExportError(format string, records int, cause error) *ExportError {
	return &ExportError{Format: format, Records: records, Cause: cause}
}
