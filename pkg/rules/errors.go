package rules

import "fmt"

// LoadError reports a rules file that could not be turned into an engine.
// Cause carries the underlying error: an *os.PathError, a YAML syntax error,
// a *jsonschema.ValidationError or a *conflict.CatalogError.
type LoadError struct {
	// FilePath is the rules file, or "<inline>" for in-memory data.
	FilePath string

	// Message describes the stage that failed.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load rules file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load rules file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
