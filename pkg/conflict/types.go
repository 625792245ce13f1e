package conflict

// Status is the safety verdict for an ingredient combination.
type Status string

const (
	// StatusSafe means no conflict was detected.
	StatusSafe Status = "safe"

	// StatusDanger means a pair rule matched or several actives were found.
	StatusDanger Status = "danger"
)

// RuleID identifies a pair rule. The zero value means no rule matched.
type RuleID string

// Verdict is the result of one engine invocation.
type Verdict struct {
	// Status is "safe" or "danger".
	Status Status `json:"status" yaml:"status"`

	// RiskScore is a bounded severity score in [0, 100].
	RiskScore int `json:"riskScore" yaml:"riskScore"`

	// Summary is the human-readable explanation.
	Summary string `json:"summary" yaml:"summary"`
}

// IsDanger reports whether the verdict flags a conflict.
func (v Verdict) IsDanger() bool {
	return v.Status == StatusDanger
}

// Assessment is a Verdict together with the intermediate detection results
// that produced it. It is used for metrics and the analysis history; the
// public contract of the engine is the embedded Verdict.
type Assessment struct {
	Verdict

	// KeywordHits are the normalized ingredients that matched at least one
	// catalog keyword, in input order.
	KeywordHits []string `json:"keywordHits"`

	// MatchedRule is the highest-priority pair rule that fired, or empty.
	MatchedRule RuleID `json:"matchedRule,omitempty"`

	// Engine names the analyzer that produced the assessment.
	Engine string `json:"engine"`

	// CatalogVersion is the version of the rule catalog in use.
	CatalogVersion string `json:"catalogVersion,omitempty"`
}

// Analyzer is the contract every conflict backend implements. Implementations
// must be total: they never fail and never return a status outside
// StatusSafe/StatusDanger or a score outside [0, 100].
type Analyzer interface {
	// Name identifies the backend (e.g. "rules").
	Name() string

	// Evaluate returns the verdict for the given ingredient names.
	Evaluate(ingredients []string) Verdict

	// Assess returns the verdict along with detection details.
	Assess(ingredients []string) Assessment
}
