package rules

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLint_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	result := Lint(path)

	if !result.Valid {
		t.Fatalf("Valid = false, issues: %v", result.Issues)
	}
	if result.Version != "2" || result.Rules != 1 {
		t.Errorf("Version = %q, Rules = %d", result.Version, result.Rules)
	}
	if result.Errors() != 0 || result.Warnings() != 0 {
		t.Errorf("issues = %v", result.Issues)
	}
}

func TestLint_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantStage string
		wantPath  string
		wantCount int
	}{
		{
			name:      "invalid yaml",
			content:   "keywords: [unclosed\n",
			wantStage: StageFile,
			wantCount: 1,
		},
		{
			name: "schema violation",
			content: `keywords: [retinol]
families:
  - name: retinoid
    triggers: [retinol]
rules: []
summaries:
  safe: "ok"
`,
			wantStage: StageSchema,
			wantCount: 1,
		},
		{
			name: "unknown families",
			content: `keywords: [retinol]
families:
  - name: retinoid
    triggers: [retinol]
rules:
  - id: broken
    priority: 1
    families: [retinoid, acids]
    summary: "x"
  - id: worse
    priority: 2
    families: [peptides, acids]
    summary: "y"
summaries:
  multiple_actives: "m"
  safe: "s"
`,
			wantStage: StageCatalog,
			wantPath:  "rules[0].families[1]",
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "rules.yaml", tt.content)

			result := Lint(path)

			if result.Valid {
				t.Fatal("Valid = true, want false")
			}
			if result.Errors() != tt.wantCount {
				t.Errorf("Errors() = %d, want %d: %v", result.Errors(), tt.wantCount, result.Issues)
			}
			first := result.Issues[0]
			if first.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", first.Stage, tt.wantStage)
			}
			if tt.wantPath != "" && first.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", first.Path, tt.wantPath)
			}
		})
	}
}

func TestLint_MissingFile(t *testing.T) {
	result := Lint(filepath.Join(t.TempDir(), "missing.yaml"))

	if result.Valid {
		t.Fatal("Valid = true for a missing file")
	}
	if !strings.Contains(result.Issues[0].Message, "file not found") {
		t.Errorf("Message = %q", result.Issues[0].Message)
	}
}

func TestLint_Warnings(t *testing.T) {
	content := `keywords: [retinol, Retinol, aha]
families:
  - name: retinoid
    triggers: [retinol]
  - name: hydroxy_acid
    triggers: [aha]
  - name: peptide
    triggers: [peptide]
rules:
  - id: first
    priority: 10
    families: [retinoid, hydroxy_acid]
    summary: "a"
  - id: second
    priority: 10
    families: [hydroxy_acid, retinoid]
    summary: "b"
summaries:
  multiple_actives: "m"
  safe: "s"
`
	path := writeFile(t, t.TempDir(), "rules.yaml", content)

	result := Lint(path)

	if !result.Valid {
		t.Fatalf("warnings must not invalidate the file: %v", result.Issues)
	}
	if result.Warnings() != 3 {
		t.Fatalf("Warnings() = %d, want 3: %v", result.Warnings(), result.Issues)
	}

	var paths []string
	for _, i := range result.Issues {
		paths = append(paths, i.Path)
	}
	joined := strings.Join(paths, ",")
	for _, want := range []string{"families[2]", "keywords[1]", "rules[1].priority"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing warning at %s in %v", want, paths)
		}
	}
}

func TestIssue_String(t *testing.T) {
	i := Issue{Severity: SeverityError, Stage: StageCatalog, Path: "rules[0].id", Message: "rule id is required"}
	if got, want := i.String(), "error [catalog] rules[0].id: rule id is required"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
