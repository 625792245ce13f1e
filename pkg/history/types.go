package history

import (
	"context"
	"time"

	"ingredient-scout/scout/pkg/conflict"
)

// Record is one evaluated ingredient list.
type Record struct {
	// ID is a UUID v4.
	ID string `json:"id" yaml:"id"`

	// RequestID is the X-Request-ID of the API call, if any.
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`

	// RecordedAt is when the analysis ran (UTC).
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`

	// Ingredients is the list as submitted.
	Ingredients []string `json:"ingredients" yaml:"ingredients"`

	// IngredientsHash is the SHA-256 of the normalized, sorted list.
	IngredientsHash string `json:"ingredients_hash" yaml:"ingredients_hash"`

	Status    conflict.Status `json:"status" yaml:"status"`
	RiskScore int             `json:"risk_score" yaml:"risk_score"`
	Summary   string          `json:"summary" yaml:"summary"`

	// MatchedRule is empty when no pair rule fired.
	MatchedRule conflict.RuleID `json:"matched_rule,omitempty" yaml:"matched_rule,omitempty"`

	KeywordHits    []string `json:"keyword_hits" yaml:"keyword_hits"`
	Engine         string   `json:"engine" yaml:"engine"`
	CatalogVersion string   `json:"catalog_version,omitempty" yaml:"catalog_version,omitempty"`
}

// Sort orders accepted in Query.SortOrder. Records are always ordered by
// RecordedAt.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query filters records. Zero fields do not filter. Time bounds are
// inclusive.
type Query struct {
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	Status          conflict.Status `json:"status,omitempty"`
	Rule            conflict.RuleID `json:"rule,omitempty"`
	RequestID       string          `json:"request_id,omitempty"`
	IngredientsHash string          `json:"ingredients_hash,omitempty"`

	// Limit and Offset paginate Query results. Delete and Count ignore
	// them.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder is "asc" (oldest first) or "desc" (newest first).
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage persists history records. Implementations are safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns the records matching q, ordered and paginated.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns how many records match q.
	Count(ctx context.Context, q *Query) (int64, error)

	// Delete removes every record matching q and returns how many were
	// removed.
	Delete(ctx context.Context, q *Query) (int64, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
