package conflict

import (
	"fmt"
	"strings"
)

// CatalogProblem describes one defect found while validating a catalog.
type CatalogProblem struct {
	// Path locates the offending entry (e.g. "rules[1].families").
	Path string

	// Message is a human-readable description.
	Message string
}

func (p CatalogProblem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// CatalogError is returned by NewRuleEngine when a catalog is unusable.
// Evaluation itself never fails; this error only occurs at construction.
type CatalogError struct {
	Problems []CatalogProblem
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "invalid catalog"
	case 1:
		return "invalid catalog: " + e.Problems[0].String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid catalog (%d problems):", len(e.Problems))
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p.String())
	}
	return sb.String()
}
