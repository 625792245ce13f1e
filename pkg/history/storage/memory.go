package storage

import (
	"context"
	"sort"
	"sync"

	"ingredient-scout/scout/pkg/history"
)

// MemoryStorage implements history.Storage in process memory. Records are
// kept in insertion order.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*history.Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store saves a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.NewStorageError(BackendMemory, "store", history.ErrClosed)
	}
	s.records = append(s.records, cloneRecord(record))
	return nil
}

// Query returns copies of the matching records.
func (s *MemoryStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := *q
	query.ApplyDefaults()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.NewStorageError(BackendMemory, "query", history.ErrClosed)
	}

	var matched []*history.Record
	for _, r := range s.records {
		if query.Matches(r) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if query.SortOrder == history.SortAsc {
			return matched[i].RecordedAt.Before(matched[j].RecordedAt)
		}
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	if query.Offset >= len(matched) {
		return []*history.Record{}, nil
	}
	end := min(query.Offset+query.Limit, len(matched))

	results := make([]*history.Record, 0, end-query.Offset)
	for _, r := range matched[query.Offset:end] {
		results = append(results, cloneRecord(r))
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.NewStorageError(BackendMemory, "count", history.ErrClosed)
	}

	var n int64
	for _, r := range s.records {
		if q.Matches(r) {
			n++
		}
	}
	return n, nil
}

// Delete removes the matching records.
func (s *MemoryStorage) Delete(ctx context.Context, q *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.NewStorageError(BackendMemory, "delete", history.ErrClosed)
	}

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if q.Matches(r) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	clear(s.records[len(kept):])
	s.records = kept
	return deleted, nil
}

// Ping fails once the backend is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.NewStorageError(BackendMemory, "ping", history.ErrClosed)
	}
	return nil
}

// Close discards every record.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.closed = true
	return nil
}

func cloneRecord(r *history.Record) *history.Record {
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.KeywordHits = append([]string(nil), r.KeywordHits...)
	return &c
}
