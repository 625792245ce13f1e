package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Skincare Ingredient Scout - ingredient conflict checker",
	Long: `Skincare Ingredient Scout checks skincare ingredient lists for combinations
that are known to irritate the skin or reduce each other's effectiveness.

It provides:
  - An HTTP API and static front end (scout serve)
  - One-off analysis from the command line (scout analyze)
  - Tooling for custom rule catalogs (scout rules)
  - Access to recorded analyses (scout history)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code for its error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus SCOUT_* environment when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the --config file with environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default. An
// explicit level overrides the configured one; --verbose forces debug.
func setupLogging(cfg *config.Config, level string) (*slog.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	if level != "" {
		lc.Level = level
	}
	if verbose {
		lc.Level = "debug"
	}
	lc.Writer = os.Stderr

	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}
