package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ingredient-scout/scout/pkg/conflict"
)

const validRules = `version: "2"
keywords: [Retinol, glycolic acid, Tretinoin]
families:
  - name: retinoid
    triggers: [RETINOL, tretinoin]
  - name: hydroxy_acid
    triggers: [glycolic]
rules:
  - id: retinoid_acid
    priority: 100
    families: [retinoid, hydroxy_acid]
    summary: "Do not layer retinoids with acids."
summaries:
  multiple_actives: "Several actives detected."
  safe: "Looks fine."
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalog_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if cat.Version != "2" {
		t.Errorf("Version = %q, want %q", cat.Version, "2")
	}
	if cat.Keywords[0] != "retinol" {
		t.Errorf("Keywords[0] = %q, want lower-cased %q", cat.Keywords[0], "retinol")
	}
	if cat.Families[0].Triggers[0] != "retinol" {
		t.Errorf("Triggers[0] = %q, want lower-cased %q", cat.Families[0].Triggers[0], "retinol")
	}
	if len(cat.Rules) != 1 || cat.Rules[0].ID != conflict.RuleRetinoidAcid {
		t.Errorf("Rules = %+v", cat.Rules)
	}
}

func TestLoadEngine_EvaluatesCustomCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	engine, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}

	got := engine.Assess([]string{"Tretinoin 0.05%", "Glycolic Acid"})
	if got.Status != conflict.StatusDanger {
		t.Errorf("Status = %q, want %q", got.Status, conflict.StatusDanger)
	}
	if got.Summary != "Do not layer retinoids with acids." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.CatalogVersion != "2" {
		t.Errorf("CatalogVersion = %q, want %q", got.CatalogVersion, "2")
	}
}

func TestLoadEngine_EmptyPathUsesDefault(t *testing.T) {
	engine, err := LoadEngine("")
	if err != nil {
		t.Fatalf("LoadEngine(\"\") error = %v", err)
	}
	if got := len(engine.RuleIDs()); got != 2 {
		t.Errorf("len(RuleIDs()) = %d, want 2", got)
	}
}

func TestLoadCatalog_FileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.yaml"),
			wantMsg: "file not found",
		},
		{
			name:    "directory",
			path:    dir,
			wantMsg: "not a regular file",
		},
		{
			name:    "empty file",
			path:    writeFile(t, dir, "empty.yaml", "  \n"),
			wantMsg: "file is empty",
		},
		{
			name:    "invalid utf8",
			path:    writeFile(t, dir, "bad.yaml", "keywords: [\xff\xfe]"),
			wantMsg: "not valid UTF-8",
		},
		{
			name:    "too large",
			path:    writeFile(t, dir, "large.yaml", strings.Repeat("#", MaxFileSize+1)),
			wantMsg: "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(tt.path)
			if err == nil {
				t.Fatal("LoadCatalog() error = nil, want error")
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error type = %T, want *LoadError", err)
			}
			if !strings.Contains(loadErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want to contain %q", loadErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			data:    "keywords: [retinol\nfamilies:",
			wantMsg: "invalid YAML",
		},
		{
			name:    "missing summaries",
			data:    "keywords: [retinol]\nfamilies:\n  - name: retinoid\n    triggers: [retinol]\nrules: []\n",
			wantMsg: "schema validation failed",
		},
		{
			name:    "unknown top-level field",
			data:    validRules + "extra: true\n",
			wantMsg: "schema validation failed",
		},
		{
			name:    "rule with three families",
			data:    strings.Replace(validRules, "families: [retinoid, hydroxy_acid]", "families: [retinoid, hydroxy_acid, retinoid]", 1),
			wantMsg: "schema validation failed",
		},
		{
			name:    "empty trigger",
			data:    strings.Replace(validRules, "triggers: [glycolic]", "triggers: [\"\"]", 1),
			wantMsg: "schema validation failed",
		},
		{
			name:    "negative priority",
			data:    strings.Replace(validRules, "priority: 100", "priority: -1", 1),
			wantMsg: "schema validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error type = %T, want *LoadError", err)
			}
			if loadErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", loadErr.Message, tt.wantMsg)
			}
			if loadErr.FilePath != "<inline>" {
				t.Errorf("FilePath = %q, want %q", loadErr.FilePath, "<inline>")
			}
		})
	}
}

func TestParseEngine_SemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown family",
			data: strings.Replace(validRules, "families: [retinoid, hydroxy_acid]", "families: [retinoid, peptide]", 1),
		},
		{
			name: "duplicate family",
			data: strings.Replace(validRules, "name: hydroxy_acid", "name: retinoid", 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEngine([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseEngine() error = nil, want error")
			}

			var catErr *conflict.CatalogError
			if !errors.As(err, &catErr) {
				t.Errorf("error = %v, want wrapped *conflict.CatalogError", err)
			}
		})
	}
}

func TestParse_IntegerVersion(t *testing.T) {
	data := strings.Replace(validRules, `version: "2"`, "version: 3", 1)

	cat, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cat.Version != "3" {
		t.Errorf("Version = %q, want %q", cat.Version, "3")
	}
}

func TestMarshal_DefaultCatalogRoundTrip(t *testing.T) {
	data, err := Marshal(conflict.DefaultCatalog())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	engine, err := ParseEngine(data)
	if err != nil {
		t.Fatalf("ParseEngine(Marshal(default)) error = %v\n%s", err, data)
	}

	want := conflict.Default().Evaluate([]string{"retinol", "glycolic acid"})
	if got := engine.Evaluate([]string{"retinol", "glycolic acid"}); got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestMarshal_Nil(t *testing.T) {
	if _, err := Marshal(nil); err == nil {
		t.Error("Marshal(nil) error = nil, want error")
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &LoadError{FilePath: "rules.yaml", Message: "invalid YAML", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), `failed to load rules file "rules.yaml": invalid YAML: boom`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
