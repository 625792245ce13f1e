package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/rules"
)

var lintFlags struct {
	files  []string
	format string
	strict bool
}

var showFlags struct {
	file   string
	format string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with rule catalogs",
	Long: `Inspect and validate rule catalogs.

A catalog lists the active-ingredient keywords, the ingredient families
and the pair rules that make a combination dangerous. The built-in
catalog is used when no rules file is configured.`,
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint [FILE...]",
	Short: "Validate rules files",
	Long: `Validate one or more rules files.

Each file is checked in stages: YAML syntax, the catalog JSON schema,
catalog consistency (known families, unique rule IDs, summaries) and
style warnings (unused families, duplicate keywords, shared priorities).

The command fails when any file has errors, or warnings with --strict.`,
	Example: `  # Validate a single file
  scout rules lint rules.yaml

  # Validate several files, failing on warnings
  scout rules lint --strict rules.yaml staging-rules.yaml

  # JSON report for CI
  scout rules lint --file rules.yaml --format json`,
	RunE: runRulesLint,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules catalog",
	Long: `Print a rules catalog in canonical form.

Without --file the catalog from engine.rules_file is printed, or the
built-in catalog when none is configured. The YAML output is a valid
rules file and can be used as a starting point for a custom catalog.`,
	Example: `  # Export the built-in catalog
  scout rules show > rules.yaml

  # Show a custom catalog as JSON
  scout rules show --file rules.yaml --format json`,
	RunE: runRulesShow,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesLintCmd)
	rulesCmd.AddCommand(rulesShowCmd)

	rulesLintCmd.Flags().StringSliceVar(&lintFlags.files, "file", nil, "rules file to lint (repeatable)")
	rulesLintCmd.Flags().StringVarP(&lintFlags.format, "format", "f", "text", "output format: text, json, yaml")
	rulesLintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")

	rulesShowCmd.Flags().StringVar(&showFlags.file, "file", "", "rules file (defaults to engine.rules_file)")
	rulesShowCmd.Flags().StringVarP(&showFlags.format, "format", "f", "yaml", "output format: yaml, json")
}

func runRulesLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}

	files := append(append([]string(nil), lintFlags.files...), args...)
	if len(files) == 0 {
		return cli.NewConfigError("file", "at least one rules file is required")
	}

	results := make([]*rules.LintResult, 0, len(files))
	failed := 0
	for _, f := range files {
		res := rules.Lint(f)
		results = append(results, res)
		if !res.Valid || (lintFlags.strict && res.Warnings() > 0) {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatText {
		writeLintText(cmd, results)
	} else if err := cli.NewFormatter(format).FormatTo(out, results); err != nil {
		return cli.NewCommandError("rules lint", err)
	}

	if failed > 0 {
		return cli.NewCommandError("rules lint", fmt.Errorf("%d of %d file(s) failed validation", failed, len(files)))
	}
	return nil
}

func writeLintText(cmd *cobra.Command, results []*rules.LintResult) {
	out := cmd.OutOrStdout()
	s := cli.DefaultStyles()

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(out, "%s %s: %d rule(s), catalog %s\n",
				s.Pass.Render("✓"), res.File, res.Rules, res.Version)
		} else {
			fmt.Fprintf(out, "%s %s: %d error(s)\n", s.Fail.Render("✗"), res.File, res.Errors())
		}

		for _, issue := range res.Issues {
			style := s.Warn
			if issue.Severity == rules.SeverityError {
				style = s.Fail
			}
			fmt.Fprintf(out, "  %s\n", style.Render(issue.String()))
		}
	}
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(showFlags.format)
	if err != nil {
		return err
	}

	path := showFlags.file
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Engine.RulesFile
	}

	cat := conflict.DefaultCatalog()
	if path != "" {
		if cat, err = rules.LoadCatalog(path); err != nil {
			return cli.NewCommandError("rules show", err)
		}
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(out, cat); err != nil {
			return cli.NewCommandError("rules show", err)
		}
		return nil
	}

	data, err := rules.Marshal(cat)
	if err != nil {
		return cli.NewCommandError("rules show", err)
	}
	_, err = out.Write(data)
	return err
}
