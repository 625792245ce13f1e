package conflict

import (
	"reflect"
	"testing"
)

func TestRuleEngine_Scenarios(t *testing.T) {
	engine := Default()
	cat := DefaultCatalog()
	retinoidSummary := cat.Rules[0].Summary
	vitaminCSummary := cat.Rules[1].Summary

	tests := []struct {
		name        string
		ingredients []string
		wantStatus  Status
		wantScore   int
		wantSummary string
		wantRule    RuleID
	}{
		{
			name:        "no actives",
			ingredients: []string{"water", "glycerin"},
			wantStatus:  StatusSafe,
			wantScore:   0,
			wantSummary: cat.Summaries.Safe,
		},
		{
			name:        "retinol with glycolic acid",
			ingredients: []string{"retinol", "glycolic acid"},
			wantStatus:  StatusDanger,
			wantScore:   70,
			wantSummary: retinoidSummary,
			wantRule:    RuleRetinoidAcid,
		},
		{
			name:        "vitamin c with niacinamide",
			ingredients: []string{"vitamin C", "niacinamide"},
			wantStatus:  StatusDanger,
			wantScore:   70,
			wantSummary: vitaminCSummary,
			wantRule:    RuleVitaminCNiacinamide,
		},
		{
			name:        "priority rule wins over generic three hits",
			ingredients: []string{"salicylic acid", "benzoyl peroxide", "retinol"},
			wantStatus:  StatusDanger,
			wantScore:   85,
			wantSummary: retinoidSummary,
			wantRule:    RuleRetinoidAcid,
		},
		{
			name:        "empty list",
			ingredients: []string{},
			wantStatus:  StatusSafe,
			wantScore:   0,
			wantSummary: cat.Summaries.Safe,
		},
		{
			name:        "nil list",
			ingredients: nil,
			wantStatus:  StatusSafe,
			wantScore:   0,
			wantSummary: cat.Summaries.Safe,
		},
		{
			name:        "single active is safe",
			ingredients: []string{"Retinol"},
			wantStatus:  StatusSafe,
			wantScore:   5,
			wantSummary: cat.Summaries.Safe,
		},
		{
			name:        "two actives without a pair rule",
			ingredients: []string{"benzoyl peroxide", "salicylic acid"},
			wantStatus:  StatusDanger,
			wantScore:   70,
			wantSummary: cat.Summaries.MultipleActives,
		},
		{
			name:        "duplicate actives count twice",
			ingredients: []string{"Glycolic Acid", "glycolic acid"},
			wantStatus:  StatusDanger,
			wantScore:   70,
			wantSummary: cat.Summaries.MultipleActives,
		},
		{
			name:        "pair rule fires with a single keyword hit",
			ingredients: []string{"retinol", "glycolic"},
			wantStatus:  StatusDanger,
			wantScore:   55,
			wantSummary: retinoidSummary,
			wantRule:    RuleRetinoidAcid,
		},
		{
			name:        "vitamin c family trigger without keyword hit",
			ingredients: []string{"ascorbic", "niacinamide"},
			wantStatus:  StatusDanger,
			wantScore:   55,
			wantSummary: vitaminCSummary,
			wantRule:    RuleVitaminCNiacinamide,
		},
		{
			name:        "both rules present picks retinoid",
			ingredients: []string{"niacinamide", "vitamin c", "salicylic acid", "retinol"},
			wantStatus:  StatusDanger,
			wantScore:   100,
			wantSummary: retinoidSummary,
			wantRule:    RuleRetinoidAcid,
		},
		{
			name:        "score is capped",
			ingredients: []string{"retinol", "aha", "bha", "benzoyl", "lactic acid"},
			wantStatus:  StatusDanger,
			wantScore:   100,
			wantSummary: retinoidSummary,
			wantRule:    RuleRetinoidAcid,
		},
		{
			name:        "substring match inside longer name",
			ingredients: []string{"ascorbic acid spray", "  NIACINAMIDE 10%  "},
			wantStatus:  StatusDanger,
			wantScore:   70,
			wantSummary: vitaminCSummary,
			wantRule:    RuleVitaminCNiacinamide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Assess(tt.ingredients)

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.RiskScore != tt.wantScore {
				t.Errorf("RiskScore = %d, want %d", got.RiskScore, tt.wantScore)
			}
			if got.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.wantSummary)
			}
			if got.MatchedRule != tt.wantRule {
				t.Errorf("MatchedRule = %q, want %q", got.MatchedRule, tt.wantRule)
			}
			if got.Engine != EngineName {
				t.Errorf("Engine = %q, want %q", got.Engine, EngineName)
			}
		})
	}
}

func TestRuleEngine_KeywordHits(t *testing.T) {
	engine := Default()

	got := engine.Assess([]string{"Water", "Retinol", "tranexamic acid", "Lactic Acid"}).KeywordHits
	want := []string{"retinol", "lactic acid"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeywordHits = %v, want %v", got, want)
	}
}

func TestRuleEngine_EvaluateMatchesAssess(t *testing.T) {
	engine := Default()
	ingredients := []string{"vitamin c", "niacinamide", "hyaluronic acid"}

	if got, want := engine.Evaluate(ingredients), engine.Assess(ingredients).Verdict; got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestRuleEngine_Idempotent(t *testing.T) {
	engine := Default()
	ingredients := []string{"Salicylic Acid", "benzoyl peroxide", "retinol"}

	first := engine.Assess(ingredients)
	second := engine.Assess(ingredients)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Assess() not idempotent: %+v != %+v", first, second)
	}
}

func TestRuleEngine_DoesNotMutateInput(t *testing.T) {
	engine := Default()
	ingredients := []string{"RETINOL", "Glycolic Acid"}

	engine.Evaluate(ingredients)

	if ingredients[0] != "RETINOL" || ingredients[1] != "Glycolic Acid" {
		t.Errorf("input mutated: %v", ingredients)
	}
}

func TestRuleEngine_PermutationInvariant(t *testing.T) {
	engine := Default()
	base := []string{"niacinamide", "water", "vitamin c", "benzoyl peroxide"}
	want := engine.Evaluate(base)

	permute(base, func(p []string) {
		got := engine.Evaluate(p)
		if got.Status != want.Status || got.RiskScore != want.RiskScore {
			t.Errorf("Evaluate(%v) = %s/%d, want %s/%d", p, got.Status, got.RiskScore, want.Status, want.RiskScore)
		}
	})
}

func TestRuleEngine_MonotonicInHits(t *testing.T) {
	engine := Default()
	actives := []string{"benzoyl peroxide", "salicylic acid", "retinol", "lactic acid", "vitamin c", "niacinamide"}

	var ingredients []string
	prev := engine.Evaluate(ingredients)
	for _, active := range actives {
		ingredients = append(ingredients, active)
		got := engine.Evaluate(ingredients)

		if got.RiskScore < prev.RiskScore {
			t.Errorf("score decreased from %d to %d after adding %q", prev.RiskScore, got.RiskScore, active)
		}
		if prev.IsDanger() && !got.IsDanger() {
			t.Errorf("status went from danger to safe after adding %q", active)
		}
		prev = got
	}
}

func TestRuleEngine_DangerInvariant(t *testing.T) {
	engine := Default()

	inputs := [][]string{
		{},
		{"water"},
		{"retinol"},
		{"retinol", "glycolic"},
		{"benzoyl peroxide", "aha"},
		{"ascorbic", "niacinamide"},
		{"vitamin c", "water", "glycerin"},
	}

	for _, in := range inputs {
		a := engine.Assess(in)
		wantDanger := a.MatchedRule != "" || len(a.KeywordHits) >= DangerHitThreshold
		if a.IsDanger() != wantDanger {
			t.Errorf("Assess(%v): danger = %v, want %v", in, a.IsDanger(), wantDanger)
		}
		if len(a.KeywordHits) == 0 && a.RiskScore != 0 {
			t.Errorf("Assess(%v): score = %d with no keyword hits", in, a.RiskScore)
		}
		if a.RiskScore < 0 || a.RiskScore > MaxRiskScore {
			t.Errorf("Assess(%v): score %d out of range", in, a.RiskScore)
		}
	}
}

func TestRuleEngine_ConcurrentUse(t *testing.T) {
	engine := Default()
	want := engine.Evaluate([]string{"retinol", "glycolic acid"})

	done := make(chan Verdict, 32)
	for i := 0; i < cap(done); i++ {
		go func() {
			done <- engine.Evaluate([]string{"retinol", "glycolic acid"})
		}()
	}

	for i := 0; i < cap(done); i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent Evaluate() = %+v, want %+v", got, want)
		}
	}
}

// permute calls fn with every permutation of s (Heap's algorithm).
func permute(s []string, fn func([]string)) {
	p := append([]string(nil), s...)
	var generate func(int)
	generate = func(k int) {
		if k == 1 {
			fn(append([]string(nil), p...))
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				p[i], p[k-1] = p[k-1], p[i]
			} else {
				p[0], p[k-1] = p[k-1], p[0]
			}
		}
	}
	generate(len(p))
}
