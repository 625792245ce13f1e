package conflict

// Rule priorities for the built-in catalog. Higher values are evaluated first.
const (
	PriorityRetinoidAcid        = 100
	PriorityVitaminCNiacinamide = 90
)

// Built-in rule identifiers.
const (
	RuleRetinoidAcid        RuleID = "retinoid_acid"
	RuleVitaminCNiacinamide RuleID = "vitamin_c_niacinamide"
)

// Built-in family names.
const (
	FamilyRetinoid    = "retinoid"
	FamilyHydroxyAcid = "hydroxy_acid"
	FamilyVitaminC    = "vitamin_c"
	FamilyNiacinamide = "niacinamide"
)

// DefaultCatalogVersion is the version reported by the built-in catalog.
const DefaultCatalogVersion = "1"

const (
	multipleActivesNotice = "We detected multiple active ingredients that may cause irritation " +
		"or reduce effectiveness when combined. Please review the suggestions " +
		"and consider spacing out active ingredients across different days."

	safeNotice = "Your ingredient combination appears to be safe! No significant conflicts " +
		"were detected. You can proceed with confidence. Remember to patch test " +
		"new products and use sunscreen daily, especially with active ingredients."
)

// Family is a named group of ingredients recognised by substring triggers.
// An ingredient list contains the family when any normalized ingredient
// contains any trigger.
type Family struct {
	Name     string   `json:"name" yaml:"name"`
	Triggers []string `json:"triggers" yaml:"triggers"`
}

// PairRule fires when both referenced families are present.
type PairRule struct {
	// ID is the stable rule identifier reported in assessments and metrics.
	ID RuleID `json:"id" yaml:"id"`

	// Priority orders evaluation; the highest matching priority wins.
	Priority int `json:"priority" yaml:"priority"`

	// Families names exactly two families that must both be present.
	Families []string `json:"families" yaml:"families"`

	// Summary is the explanation returned when this rule decides the verdict.
	Summary string `json:"summary" yaml:"summary"`
}

// Summaries holds the explanation texts that are not tied to a pair rule.
type Summaries struct {
	// MultipleActives is used for danger verdicts without a matched rule.
	MultipleActives string `json:"multiple_actives" yaml:"multiple_actives"`

	// Safe is used for every safe verdict.
	Safe string `json:"safe" yaml:"safe"`
}

// Catalog is the declarative rule table driving a RuleEngine.
type Catalog struct {
	// Version is an opaque label recorded with every assessment.
	Version string `json:"version" yaml:"version"`

	// Keywords are the high-activity substrings counted as keyword hits.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Families are the ingredient groups referenced by rules.
	Families []Family `json:"families" yaml:"families"`

	// Rules are the pair rules; evaluation order is by descending priority,
	// ties keep declaration order.
	Rules []PairRule `json:"rules" yaml:"rules"`

	// Summaries holds the texts for verdicts not decided by a rule.
	Summaries Summaries `json:"summaries" yaml:"summaries"`
}

// DefaultCatalog returns a fresh copy of the built-in catalog. Callers may
// modify the returned value freely.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Version: DefaultCatalogVersion,
		Keywords: []string{
			"retinol",
			"aha",
			"bha",
			"salicylic",
			"benzoyl",
			"vitamin c",
			"niacinamide",
			"ascorbic acid",
			"glycolic acid",
			"lactic acid",
		},
		Families: []Family{
			{Name: FamilyRetinoid, Triggers: []string{"retinol"}},
			{Name: FamilyHydroxyAcid, Triggers: []string{"aha", "bha", "salicylic", "glycolic", "lactic"}},
			{Name: FamilyVitaminC, Triggers: []string{"vitamin c", "ascorbic"}},
			{Name: FamilyNiacinamide, Triggers: []string{"niacinamide"}},
		},
		Rules: []PairRule{
			{
				ID:       RuleRetinoidAcid,
				Priority: PriorityRetinoidAcid,
				Families: []string{FamilyRetinoid, FamilyHydroxyAcid},
				Summary: "We detected a potential conflict: Retinol and acids (AHA/BHA) " +
					"can cause excessive irritation and dryness when used together. " +
					"Consider using them on alternate days or at different times (AM/PM).",
			},
			{
				ID:       RuleVitaminCNiacinamide,
				Priority: PriorityVitaminCNiacinamide,
				Families: []string{FamilyVitaminC, FamilyNiacinamide},
				Summary: "We detected a potential conflict: Vitamin C and Niacinamide may " +
					"cause flushing and reduce effectiveness when combined at high concentrations. " +
					"Consider applying them at different times of day.",
			},
		},
		Summaries: Summaries{
			MultipleActives: multipleActivesNotice,
			Safe:            safeNotice,
		},
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}

	out := &Catalog{
		Version:   c.Version,
		Keywords:  append([]string(nil), c.Keywords...),
		Families:  make([]Family, len(c.Families)),
		Rules:     make([]PairRule, len(c.Rules)),
		Summaries: c.Summaries,
	}
	for i, f := range c.Families {
		out.Families[i] = Family{
			Name:     f.Name,
			Triggers: append([]string(nil), f.Triggers...),
		}
	}
	for i, r := range c.Rules {
		r.Families = append([]string(nil), r.Families...)
		out.Rules[i] = r
	}

	return out
}

// Family returns the family with the given name.
func (c *Catalog) Family(name string) (Family, bool) {
	for _, f := range c.Families {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}
