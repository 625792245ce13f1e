package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/rules"
)

var analyzeFlags struct {
	format       string
	rulesFile    string
	failOnDanger bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [INGREDIENT...]",
	Short: "Check an ingredient list for conflicts",
	Long: `Check a list of skincare ingredients for known conflicts.

Ingredients are taken from the arguments, or one per line from standard
input when no arguments are given. Blank lines are ignored.

The verdict is the same one POST /api/analyze returns. JSON and YAML output
contain exactly the status, riskScore and summary fields.`,
	Example: `  # Two conflicting actives
  scout analyze retinol "glycolic acid"

  # Read a routine from a file
  scout analyze < routine.txt

  # Machine-readable output against a custom catalog
  scout analyze --format json --rules rules.yaml "vitamin c" niacinamide

  # Fail a script when the routine is dangerous
  scout analyze --fail-on-danger retinol aha`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.format, "format", "f", "text", "output format: text, json, yaml")
	analyzeCmd.Flags().StringVar(&analyzeFlags.rulesFile, "rules", "", "rules catalog file (overrides engine.rules_file)")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.failOnDanger, "fail-on-danger", false, "exit with status 3 when the verdict is danger")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(analyzeFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ingredients := args
	if len(ingredients) == 0 {
		ingredients, err = readIngredients(cmd.InOrStdin())
		if err != nil {
			return cli.NewCommandError("analyze", err)
		}
	}
	if len(ingredients) == 0 {
		return cli.NewConfigError("ingredients", "no ingredients given")
	}
	if max := cfg.Engine.MaxIngredients; max > 0 && len(ingredients) > max {
		return cli.NewConfigError("ingredients", fmt.Sprintf("too many ingredients: %d (max %d)", len(ingredients), max))
	}

	path := cfg.Engine.RulesFile
	if analyzeFlags.rulesFile != "" {
		path = analyzeFlags.rulesFile
	}
	engine, err := rules.LoadEngine(path)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	a := engine.Assess(ingredients)

	out := cmd.OutOrStdout()
	if format == cli.FormatText {
		err = cli.WriteAssessment(out, ingredients, a, cli.DefaultStyles())
	} else {
		err = cli.NewFormatter(format).FormatTo(out, a.Verdict)
	}
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	if analyzeFlags.failOnDanger && a.IsDanger() {
		return &cli.ExitError{Code: cli.ExitDanger}
	}
	return nil
}

// readIngredients reads one ingredient per non-blank line.
func readIngredients(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(errors.New("failed to read ingredients"), err)
	}
	return out, nil
}
