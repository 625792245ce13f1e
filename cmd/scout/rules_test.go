package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/rules"
)

func writeCatalog(t *testing.T, dir, name string, cat *conflict.Catalog) string {
	t.Helper()
	data, err := rules.Marshal(cat)
	if err != nil {
		t.Fatal(err)
	}
	return writeFile(t, dir, name, string(data))
}

func TestRunRulesLint(t *testing.T) {
	dir := t.TempDir()

	valid := writeCatalog(t, dir, "valid.yaml", conflict.DefaultCatalog())

	broken := conflict.DefaultCatalog()
	broken.Rules[0].Families[1] = "peptides"
	invalid := writeCatalog(t, dir, "invalid.yaml", broken)

	unused := conflict.DefaultCatalog()
	unused.Families = append(unused.Families, conflict.Family{Name: "peptide", Triggers: []string{"peptide"}})
	warnings := writeCatalog(t, dir, "warnings.yaml", unused)

	tests := []struct {
		name     string
		files    []string
		strict   bool
		wantErr  bool
		contains []string
	}{
		{
			name:     "valid file",
			files:    []string{valid},
			contains: []string{"✓", "valid.yaml", "2 rule(s)"},
		},
		{
			name:     "unknown family",
			files:    []string{invalid},
			wantErr:  true,
			contains: []string{"✗", "1 error(s)", `error [catalog] rules[0].families[1]: unknown family "peptides"`},
		},
		{
			name:     "warnings pass without strict",
			files:    []string{warnings},
			contains: []string{"✓", "warning [style] families[4]"},
		},
		{
			name:    "warnings fail with strict",
			files:   []string{warnings},
			strict:  true,
			wantErr: true,
		},
		{
			name:     "one bad file fails the run",
			files:    []string{valid, invalid},
			wantErr:  true,
			contains: []string{"valid.yaml", "invalid.yaml"},
		},
		{
			name:     "missing file",
			files:    []string{dir + "/missing.yaml"},
			wantErr:  true,
			contains: []string{"error [file]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			lintFlags.strict = tt.strict

			cmd, buf := newTestCommand("")
			err := runRulesLint(cmd, tt.files)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runRulesLint() error = %v, wantErr %v\n%s", err, tt.wantErr, buf.String())
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestRunRulesLint_FileFlagAndJSON(t *testing.T) {
	resetFlags(t)
	lintFlags.files = []string{writeCatalog(t, t.TempDir(), "rules.yaml", conflict.DefaultCatalog())}
	lintFlags.format = "json"

	cmd, buf := newTestCommand("")
	if err := runRulesLint(cmd, nil); err != nil {
		t.Fatalf("runRulesLint() error = %v", err)
	}

	var results []rules.LintResult
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(results) != 1 || !results[0].Valid || results[0].Rules != 2 {
		t.Errorf("results = %+v", results)
	}
}

func TestRunRulesLint_NoFiles(t *testing.T) {
	resetFlags(t)

	cmd, _ := newTestCommand("")
	err := runRulesLint(cmd, nil)

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("runRulesLint() error = %v, want ConfigError", err)
	}
}

func TestRunRulesShow_Default(t *testing.T) {
	resetFlags(t)

	cmd, buf := newTestCommand("")
	if err := runRulesShow(cmd, nil); err != nil {
		t.Fatalf("runRulesShow() error = %v", err)
	}

	engine, err := rules.ParseEngine(buf.Bytes())
	if err != nil {
		t.Fatalf("shown catalog does not load: %v\n%s", err, buf.String())
	}
	want := conflict.Default()
	if engine.Version() != want.Version() || engine.KeywordCount() != want.KeywordCount() {
		t.Errorf("shown catalog = %s/%d keywords, want %s/%d",
			engine.Version(), engine.KeywordCount(), want.Version(), want.KeywordCount())
	}
}

func TestRunRulesShow_FileAsJSON(t *testing.T) {
	resetFlags(t)

	cat := conflict.DefaultCatalog()
	cat.Version = "2024-06"
	showFlags.file = writeCatalog(t, t.TempDir(), "rules.yaml", cat)
	showFlags.format = "json"

	cmd, buf := newTestCommand("")
	if err := runRulesShow(cmd, nil); err != nil {
		t.Fatalf("runRulesShow() error = %v", err)
	}

	var got conflict.Catalog
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Version != "2024-06" || len(got.Rules) != 2 {
		t.Errorf("catalog = version %q, %d rules", got.Version, len(got.Rules))
	}
}

func TestRunRulesShow_InvalidFile(t *testing.T) {
	resetFlags(t)
	showFlags.file = writeFile(t, t.TempDir(), "rules.yaml", "keywords: [\n")

	cmd, _ := newTestCommand("")
	if err := runRulesShow(cmd, nil); err == nil {
		t.Fatal("runRulesShow() expected error")
	}
}
