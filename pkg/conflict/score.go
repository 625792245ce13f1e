package conflict

import "strings"

// Scoring constants.
const (
	// DangerHitThreshold is the keyword hit count that makes a list dangerous
	// on its own, without any pair rule.
	DangerHitThreshold = 2

	// DangerBaseScore is the score floor of a danger verdict.
	DangerBaseScore = 40

	// DangerPerHit is added per keyword hit in a danger verdict.
	DangerPerHit = 15

	// SafePerHit is added per keyword hit in a safe verdict.
	SafePerHit = 5

	// MaxRiskScore caps every score.
	MaxRiskScore = 100
)

// Normalize lower-cases every ingredient. Length and order are preserved and
// no trimming is applied; matching is substring based so inner whitespace is
// irrelevant as long as a keyword is contiguous.
func Normalize(ingredients []string) []string {
	out := make([]string, len(ingredients))
	for i, ing := range ingredients {
		out[i] = strings.ToLower(ing)
	}
	return out
}

// Score maps a keyword hit count and danger decision to a risk score in
// [0, MaxRiskScore].
func Score(hits int, danger bool) int {
	if danger {
		return min(MaxRiskScore, DangerBaseScore+DangerPerHit*hits)
	}
	return max(0, SafePerHit*hits)
}
