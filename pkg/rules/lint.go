package rules

import (
	"errors"
	"fmt"
	"strings"

	"ingredient-scout/scout/pkg/conflict"
)

// Severity of a lint issue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Lint stages, in the order they run.
const (
	StageFile    = "file"
	StageSchema  = "schema"
	StageCatalog = "catalog"
	StageStyle   = "style"
)

// Issue is one finding of Lint.
type Issue struct {
	Severity string `json:"severity"`
	Stage    string `json:"stage"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s [%s] %s", i.Severity, i.Stage, i.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Stage, i.Path, i.Message)
}

// LintResult is the outcome of linting one rules file.
type LintResult struct {
	File    string  `json:"file"`
	Valid   bool    `json:"valid"`
	Version string  `json:"version,omitempty"`
	Rules   int     `json:"rules"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Errors returns the number of error issues.
func (r *LintResult) Errors() int {
	return r.count(SeverityError)
}

// Warnings returns the number of warning issues.
func (r *LintResult) Warnings() int {
	return r.count(SeverityWarning)
}

func (r *LintResult) count(severity string) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == severity {
			n++
		}
	}
	return n
}

// Lint runs every validation stage on the rules file at path and reports
// all problems instead of stopping at the first one. A file is valid when it
// has no error issues; warnings flag catalogs that load but are probably
// not what the author meant.
func Lint(path string) *LintResult {
	result := &LintResult{File: path}

	cat, err := LoadCatalog(path)
	if err != nil {
		result.Issues = append(result.Issues, loadIssue(err))
		return result
	}
	result.Version = cat.Version
	result.Rules = len(cat.Rules)

	if _, err := conflict.NewRuleEngine(cat); err != nil {
		var catErr *conflict.CatalogError
		if errors.As(err, &catErr) {
			for _, p := range catErr.Problems {
				result.Issues = append(result.Issues, Issue{
					Severity: SeverityError,
					Stage:    StageCatalog,
					Path:     p.Path,
					Message:  p.Message,
				})
			}
		} else {
			result.Issues = append(result.Issues, Issue{Severity: SeverityError, Stage: StageCatalog, Message: err.Error()})
		}
	}

	result.Issues = append(result.Issues, styleIssues(cat)...)
	result.Valid = result.Errors() == 0
	return result
}

func loadIssue(err error) Issue {
	issue := Issue{Severity: SeverityError, Stage: StageFile, Message: err.Error()}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return issue
	}
	if loadErr.Message == "schema validation failed" {
		issue.Stage = StageSchema
	}
	issue.Message = loadErr.Message
	if loadErr.Cause != nil {
		issue.Message += ": " + loadErr.Cause.Error()
	}
	return issue
}

// styleIssues reports catalog shapes that compile but are likely mistakes.
func styleIssues(cat *conflict.Catalog) []Issue {
	var issues []Issue

	used := make(map[string]bool)
	for _, r := range cat.Rules {
		for _, f := range r.Families {
			used[f] = true
		}
	}
	for i, f := range cat.Families {
		if f.Name != "" && !used[f.Name] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Stage:    StageStyle,
				Path:     fmt.Sprintf("families[%d]", i),
				Message:  fmt.Sprintf("family %q is not referenced by any rule", f.Name),
			})
		}
	}

	seen := make(map[string]int)
	for i, kw := range cat.Keywords {
		key := strings.ToLower(kw)
		if j, ok := seen[key]; ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Stage:    StageStyle,
				Path:     fmt.Sprintf("keywords[%d]", i),
				Message:  fmt.Sprintf("duplicate of keywords[%d]; each ingredient is counted once regardless", j),
			})
			continue
		}
		seen[key] = i
	}

	priorities := make(map[int]conflict.RuleID)
	for i, r := range cat.Rules {
		if other, ok := priorities[r.Priority]; ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Stage:    StageStyle,
				Path:     fmt.Sprintf("rules[%d].priority", i),
				Message:  fmt.Sprintf("priority %d is shared with rule %q; declaration order decides", r.Priority, other),
			})
			continue
		}
		priorities[r.Priority] = r.ID
	}

	return issues
}
