package history

import (
	"fmt"

	"ingredient-scout/scout/pkg/conflict"
)

const (
	// DefaultLimit is applied when a query does not set one.
	DefaultLimit = 100

	// MaxLimit caps a single page.
	MaxLimit = 1000
)

// Validate reports the first invalid parameter of q.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}
	if q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		return NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}
	if q.Status != "" && q.Status != conflict.StatusSafe && q.Status != conflict.StatusDanger {
		return NewQueryError(q, fmt.Errorf("invalid status: %s (must be 'safe' or 'danger')", q.Status))
	}
	if q.Since != nil && q.Until != nil && q.Since.After(*q.Until) {
		return NewQueryError(q, fmt.Errorf("since must not be after until"))
	}
	return nil
}

// ApplyDefaults fills the limit and sort order.
func (q *Query) ApplyDefaults() {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
}

// Matches reports whether r passes every filter of q. Pagination is not
// considered.
func (q *Query) Matches(r *Record) bool {
	if q.Since != nil && r.RecordedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.RecordedAt.After(*q.Until) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.Rule != "" && r.MatchedRule != q.Rule {
		return false
	}
	if q.RequestID != "" && r.RequestID != q.RequestID {
		return false
	}
	if q.IngredientsHash != "" && r.IngredientsHash != q.IngredientsHash {
		return false
	}
	return true
}
