package conflict

import (
	"fmt"
	"sort"
	"strings"
)

// EngineName is the Analyzer name reported by RuleEngine.
const EngineName = "rules"

// compiledRule is a PairRule with its family triggers resolved.
type compiledRule struct {
	id      RuleID
	summary string
	first   []string
	second  []string
}

// RuleEngine is the deterministic, catalog-driven Analyzer. It is immutable
// after construction and safe for concurrent use.
type RuleEngine struct {
	version   string
	keywords  []string
	rules     []compiledRule
	summaries Summaries
}

// NewRuleEngine validates the catalog and compiles it into an engine.
// Keywords and triggers are lower-cased so they compare against normalized
// ingredients. Rules are ordered by descending priority; equal priorities
// keep their catalog order.
func NewRuleEngine(cat *Catalog) (*RuleEngine, error) {
	if cat == nil {
		return nil, &CatalogError{Problems: []CatalogProblem{{Path: "catalog", Message: "catalog is nil"}}}
	}

	if problems := validateCatalog(cat); len(problems) > 0 {
		return nil, &CatalogError{Problems: problems}
	}

	families := make(map[string][]string, len(cat.Families))
	for _, f := range cat.Families {
		families[f.Name] = lowerAll(f.Triggers)
	}

	ordered := make([]PairRule, len(cat.Rules))
	copy(ordered, cat.Rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	rules := make([]compiledRule, 0, len(ordered))
	for _, r := range ordered {
		rules = append(rules, compiledRule{
			id:      r.ID,
			summary: r.Summary,
			first:   families[r.Families[0]],
			second:  families[r.Families[1]],
		})
	}

	return &RuleEngine{
		version:   cat.Version,
		keywords:  lowerAll(cat.Keywords),
		rules:     rules,
		summaries: cat.Summaries,
	}, nil
}

// MustNewRuleEngine is like NewRuleEngine but panics on an invalid catalog.
func MustNewRuleEngine(cat *Catalog) *RuleEngine {
	e, err := NewRuleEngine(cat)
	if err != nil {
		panic(fmt.Sprintf("conflict: %v", err))
	}
	return e
}

// Default returns an engine built from DefaultCatalog.
func Default() *RuleEngine {
	return MustNewRuleEngine(DefaultCatalog())
}

// Name implements Analyzer.
func (e *RuleEngine) Name() string {
	return EngineName
}

// Version returns the catalog version the engine was built from.
func (e *RuleEngine) Version() string {
	return e.version
}

// KeywordCount returns the number of catalog keywords.
func (e *RuleEngine) KeywordCount() int {
	return len(e.keywords)
}

// RuleIDs returns the rule identifiers in evaluation order.
func (e *RuleEngine) RuleIDs() []RuleID {
	ids := make([]RuleID, len(e.rules))
	for i, r := range e.rules {
		ids[i] = r.id
	}
	return ids
}

// Evaluate implements Analyzer.
func (e *RuleEngine) Evaluate(ingredients []string) Verdict {
	return e.Assess(ingredients).Verdict
}

// Assess implements Analyzer.
func (e *RuleEngine) Assess(ingredients []string) Assessment {
	normalized := Normalize(ingredients)

	// The two detection passes are independent and only meet here.
	hits := e.keywordHits(normalized)
	rule, matched := e.matchRule(normalized)

	danger := matched != nil || len(hits) >= DangerHitThreshold

	verdict := Verdict{
		Status:    StatusSafe,
		RiskScore: Score(len(hits), danger),
		Summary:   e.summaries.Safe,
	}
	if danger {
		verdict.Status = StatusDanger
		verdict.Summary = e.summaries.MultipleActives
		if matched != nil {
			verdict.Summary = matched.summary
		}
	}

	return Assessment{
		Verdict:        verdict,
		KeywordHits:    hits,
		MatchedRule:    rule,
		Engine:         EngineName,
		CatalogVersion: e.version,
	}
}

// keywordHits returns every normalized ingredient containing at least one
// catalog keyword. Distinct entries are counted separately even when they
// hit the same keyword.
func (e *RuleEngine) keywordHits(normalized []string) []string {
	hits := make([]string, 0, len(normalized))
	for _, ing := range normalized {
		if containsAny(ing, e.keywords) {
			hits = append(hits, ing)
		}
	}
	return hits
}

// matchRule returns the first rule, in priority order, whose two families
// are both present.
func (e *RuleEngine) matchRule(normalized []string) (RuleID, *compiledRule) {
	for i := range e.rules {
		r := &e.rules[i]
		if familyPresent(normalized, r.first) && familyPresent(normalized, r.second) {
			return r.id, r
		}
	}
	return "", nil
}

// familyPresent reports whether any ingredient contains any trigger.
func familyPresent(normalized []string, triggers []string) bool {
	for _, ing := range normalized {
		if containsAny(ing, triggers) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// validateCatalog collects every structural problem in the catalog.
func validateCatalog(cat *Catalog) []CatalogProblem {
	var problems []CatalogProblem

	for i, kw := range cat.Keywords {
		if kw == "" {
			problems = append(problems, CatalogProblem{
				Path:    fmt.Sprintf("keywords[%d]", i),
				Message: "keyword must not be empty",
			})
		}
	}

	known := make(map[string]bool, len(cat.Families))
	for i, f := range cat.Families {
		path := fmt.Sprintf("families[%d]", i)
		if f.Name == "" {
			problems = append(problems, CatalogProblem{Path: path + ".name", Message: "family name is required"})
		} else if known[f.Name] {
			problems = append(problems, CatalogProblem{Path: path + ".name", Message: fmt.Sprintf("duplicate family %q", f.Name)})
		}
		known[f.Name] = true

		if len(f.Triggers) == 0 {
			problems = append(problems, CatalogProblem{Path: path + ".triggers", Message: "at least one trigger is required"})
		}
		for j, t := range f.Triggers {
			// An empty trigger would match every ingredient.
			if t == "" {
				problems = append(problems, CatalogProblem{
					Path:    fmt.Sprintf("%s.triggers[%d]", path, j),
					Message: "trigger must not be empty",
				})
			}
		}
	}

	seen := make(map[RuleID]bool, len(cat.Rules))
	for i, r := range cat.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		if r.ID == "" {
			problems = append(problems, CatalogProblem{Path: path + ".id", Message: "rule id is required"})
		} else if seen[r.ID] {
			problems = append(problems, CatalogProblem{Path: path + ".id", Message: fmt.Sprintf("duplicate rule %q", r.ID)})
		}
		seen[r.ID] = true

		if len(r.Families) != 2 {
			problems = append(problems, CatalogProblem{
				Path:    path + ".families",
				Message: fmt.Sprintf("rule must name exactly 2 families, got %d", len(r.Families)),
			})
		} else {
			for j, name := range r.Families {
				if !known[name] {
					problems = append(problems, CatalogProblem{
						Path:    fmt.Sprintf("%s.families[%d]", path, j),
						Message: fmt.Sprintf("unknown family %q", name),
					})
				}
			}
		}

		if r.Summary == "" {
			problems = append(problems, CatalogProblem{Path: path + ".summary", Message: "summary is required"})
		}
	}

	if cat.Summaries.MultipleActives == "" {
		problems = append(problems, CatalogProblem{Path: "summaries.multiple_actives", Message: "summary is required"})
	}
	if cat.Summaries.Safe == "" {
		problems = append(problems, CatalogProblem{Path: "summaries.safe", Message: "summary is required"})
	}

	return problems
}
