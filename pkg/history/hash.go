package history

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"ingredient-scout/scout/pkg/conflict"
)

// HashIngredients returns the hex SHA-256 of the normalized, sorted list.
// Entries are also trimmed so lists that differ only in surrounding
// whitespace share a hash. An empty list hashes to the empty string.
func HashIngredients(ingredients []string) string {
	if len(ingredients) == 0 {
		return ""
	}

	normalized := conflict.Normalize(ingredients)
	for i, ing := range normalized {
		normalized[i] = strings.TrimSpace(ing)
	}
	sort.Strings(normalized)

	h := sha256.New()
	for _, ing := range normalized {
		h.Write([]byte(ing))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
