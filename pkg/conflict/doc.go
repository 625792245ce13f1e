// Package conflict implements the ingredient-conflict rule engine that flags
// unsafe or counter-productive combinations of cosmetic active ingredients.
//
// The engine is a pure function from an ingredient list to a Verdict. It holds
// no mutable state, performs no I/O and is safe for concurrent use.
//
// # Evaluation Flow
//
//	[]string (raw ingredient names)
//	       ↓
//	Normalize (lower-case, order and length preserved)
//	       ↓
//	Keyword detector ──────────────┐     Pair-rule evaluator (priority order)
//	(substring match vs catalog)   │     (family × family, first match wins)
//	       ↓                       │            ↓
//	hit count                      └──→ danger = matched rule || hits >= 2
//	       ↓
//	Score (danger: min(100, 40+15n), safe: 5n)
//	       ↓
//	Verdict{status, riskScore, summary}
//
// The keyword detector and the pair-rule evaluator are independent passes. A
// pair rule can fire through its family triggers even when the matching strings
// are not keyword hits, and the two results are only combined when the verdict
// is composed.
//
// # Matching Semantics
//
// All matching is substring containment on the lower-cased ingredient string,
// never whole-word matching: "ascorbic acid spray" matches the keyword
// "ascorbic acid", and a trigger such as "aha" matches any ingredient that
// contains those three letters. Catalog entries must be chosen with that in
// mind.
//
// # Basic Usage
//
//	engine := conflict.Default()
//	verdict := engine.Evaluate([]string{"Retinol", "Glycolic Acid"})
//	// verdict.Status == conflict.StatusDanger, verdict.RiskScore == 70
//
// Custom catalogs are validated when the engine is built:
//
//	cat := conflict.DefaultCatalog()
//	cat.Keywords = append(cat.Keywords, "tretinoin")
//	engine, err := conflict.NewRuleEngine(cat)
//
// # Swapping Backends
//
// Callers depend on the Analyzer interface. RuleEngine is the rule-based
// implementation; Swappable lets a running service replace the active
// analyzer (for example after a catalog reload) without locking readers.
package conflict
