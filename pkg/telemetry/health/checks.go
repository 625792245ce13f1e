package health

import (
	"context"
	"errors"
	"fmt"

	"ingredient-scout/scout/pkg/conflict"
)

// Pinger is implemented by dependencies that can report reachability, such
// as the history storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogCheck verifies that an engine is loaded and produces a well-formed
// verdict for an empty ingredient list.
func CatalogCheck(analyzer conflict.Analyzer) CheckFunc {
	return func(ctx context.Context) error {
		if analyzer == nil {
			return errors.New("no rule catalog loaded")
		}
		v := analyzer.Evaluate(nil)
		if v.Status != conflict.StatusSafe || v.RiskScore != 0 {
			return fmt.Errorf("engine %s returned %s/%d for an empty list", analyzer.Name(), v.Status, v.RiskScore)
		}
		return nil
	}
}

// PingCheck wraps a Pinger.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		return nil
	}
}
