package conflict

import "sync/atomic"

type analyzerBox struct {
	a Analyzer
}

// Swappable is an Analyzer that delegates to a replaceable backend. Readers
// never block; Replace publishes a new backend atomically and in-flight
// evaluations finish on the one they started with.
type Swappable struct {
	current atomic.Pointer[analyzerBox]
}

// NewSwappable returns a Swappable delegating to initial, which must not be
// nil.
func NewSwappable(initial Analyzer) *Swappable {
	s := &Swappable{}
	s.Replace(initial)
	return s
}

// Replace swaps the active backend. A nil analyzer is ignored.
func (s *Swappable) Replace(a Analyzer) {
	if a == nil {
		return
	}
	s.current.Store(&analyzerBox{a: a})
}

// Current returns the active backend.
func (s *Swappable) Current() Analyzer {
	return s.current.Load().a
}

// Name implements Analyzer.
func (s *Swappable) Name() string {
	return s.Current().Name()
}

// Evaluate implements Analyzer.
func (s *Swappable) Evaluate(ingredients []string) Verdict {
	return s.Current().Evaluate(ingredients)
}

// Assess implements Analyzer.
func (s *Swappable) Assess(ingredients []string) Assessment {
	return s.Current().Assess(ingredients)
}
