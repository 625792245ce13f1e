package main

import (
	"context"
	cryptotls "crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
	"ingredient-scout/scout/pkg/history/recorder"
	"ingredient-scout/scout/pkg/history/retention"
	"ingredient-scout/scout/pkg/history/storage"
	"ingredient-scout/scout/pkg/rules"
	"ingredient-scout/scout/pkg/rules/gitsource"
	"ingredient-scout/scout/pkg/security/auth"
	scouttls "ingredient-scout/scout/pkg/security/tls"
	"ingredient-scout/scout/pkg/server"
	"ingredient-scout/scout/pkg/telemetry/metrics"
	"ingredient-scout/scout/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddr string
	logLevel   string
	dryRun     bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the Skincare Ingredient Scout HTTP server.

The server exposes POST /api/analyze, health and version endpoints, the
optional analysis history and Prometheus metrics, and serves the static
front end from server.static_dir.

The rules catalog is the built-in one unless engine.rules_file or
engine.git is configured. File catalogs can be hot-reloaded with
engine.watch; git catalogs are polled.`,
	Example: `  # Start with defaults on :5000
  scout serve

  # Start with a config file
  scout serve --config config.yaml

  # Override the listen address
  scout serve --listen 127.0.0.1:9000

  # Validate configuration and rules without starting
  scout serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.listenAddr, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate configuration and rules without starting")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddr != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddr
	}
	config.SetConfig(cfg)

	logger, err := setupLogging(cfg, serveFlags.logLevel)
	if err != nil {
		return err
	}

	if serveFlags.dryRun {
		return dryRun(cmd, cfg)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	logger.Info("starting Skincare Ingredient Scout",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"tls", cfg.Server.TLS.Enabled,
		"rate_limit", cfg.Server.RateLimit.Enabled,
	)

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	engine, err := initialEngine(cfg)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	analyzer := conflict.NewSwappable(engine)
	collector.SetActiveCatalog(engine)

	cleanup, err := startCatalogSource(ctx, cfg, analyzer, collector, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer cleanup()

	deps := server.Dependencies{
		Analyzer: analyzer,
		Metrics:  collector,
		Tracer:   tracer,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	}

	if cfg.Server.TLS.Enabled {
		tlsConfig, err := startTLS(ctx, cfg.Server.TLS, logger)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		deps.TLS = tlsConfig
	}

	if cfg.Server.Auth.Enabled {
		keys, err := auth.KeysFromConfig(cfg.Server.Auth)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		deps.Auth = auth.NewAPIKeyValidator(keys)
	}

	if cfg.History.Enabled {
		store, rec, pruner, err := startHistory(ctx, cfg.History, collector)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		// Closed in reverse: scheduler, then queued writes, then storage.
		defer store.Close()
		defer rec.Close()
		defer pruner.Stop()

		deps.History = store
		deps.Recorder = rec
	}

	srv := server.NewServer(cfg, deps)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	logger.Info("server stopped")
	return nil
}

// initialEngine compiles the startup catalog. A git source is loaded by its
// poller, so the built-in catalog serves until the first load succeeds.
func initialEngine(cfg *config.Config) (*conflict.RuleEngine, error) {
	if cfg.Engine.Git.Enabled {
		return conflict.Default(), nil
	}
	return rules.LoadEngine(cfg.Engine.RulesFile)
}

// startCatalogSource starts the git poller or file watcher that keeps
// analyzer up to date. The returned func stops it.
func startCatalogSource(ctx context.Context, cfg *config.Config, analyzer *conflict.Swappable, collector *metrics.Collector, logger *slog.Logger) (func(), error) {
	noop := func() {}

	switch {
	case cfg.Engine.Git.Enabled:
		repo, err := gitsource.NewRepository(cfg.Engine.Git)
		if err != nil {
			return noop, fmt.Errorf("failed to create rules repository: %w", err)
		}
		if err := repo.Clone(ctx); err != nil {
			return noop, fmt.Errorf("failed to clone rules repository: %w", err)
		}

		poller, err := gitsource.NewPoller(repo, analyzer, gitsource.PollerConfig{
			Interval: cfg.Engine.Git.Poll.Interval,
			Timeout:  cfg.Engine.Git.Poll.Timeout,
		}, logger)
		if err != nil {
			return noop, err
		}
		poller.OnReload(collector.RecordCatalogReload)

		if err := poller.Load(); err != nil {
			return noop, fmt.Errorf("failed to load rules from git: %w", err)
		}
		if err := poller.Start(ctx); err != nil {
			return noop, err
		}
		logger.Info("rules loaded from git",
			"repository", cfg.Engine.Git.Repository,
			"commit", poller.LastGoodCommit(),
		)
		return poller.Stop, nil

	case cfg.Engine.RulesFile != "" && cfg.Engine.Watch:
		watcher, err := rules.NewWatcher(rules.WatcherConfig{
			Path:             cfg.Engine.RulesFile,
			DebounceInterval: cfg.Engine.DebounceInterval,
		}, analyzer, logger)
		if err != nil {
			return noop, fmt.Errorf("failed to watch rules file: %w", err)
		}
		watcher.OnReload(collector.RecordCatalogReload)

		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("rules watcher stopped", "error", err)
			}
		}()
		return func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("failed to stop rules watcher", "error", err)
			}
		}, nil
	}

	return noop, nil
}

// startTLS loads the serving certificate and keeps reloading it until ctx
// is done.
func startTLS(ctx context.Context, cfg config.TLSConfig, logger *slog.Logger) (*cryptotls.Config, error) {
	reloader := scouttls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, logger)
	if err := reloader.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig, err := scouttls.NewServerConfig(cfg, reloader)
	if err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}
	return tlsConfig, nil
}

// startHistory opens the history storage and starts its recorder and
// scheduled pruning.
func startHistory(ctx context.Context, cfg config.HistoryConfig, collector *metrics.Collector) (history.Storage, *recorder.Recorder, *retention.Pruner, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open history storage: %w", err)
	}

	rec := recorder.New(store, recorder.ConfigFrom(cfg.Recorder))
	rec.SetObserver(collector.RecordHistoryWrite)

	pruner := retention.NewPruner(store, retention.ConfigFrom(cfg.Retention))
	pruner.OnPrune(collector.RecordHistoryPruned)
	if err := pruner.Start(ctx); err != nil {
		rec.Close()
		store.Close()
		return nil, nil, nil, fmt.Errorf("failed to schedule history pruning: %w", err)
	}

	return store, rec, pruner, nil
}

// dryRun validates the configuration and compiles the configured catalog.
func dryRun(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Configuration valid")

	if cfg.Engine.Git.Enabled {
		fmt.Fprintf(out, "✓ Rules source: git %s (%s)\n", cfg.Engine.Git.Repository, cfg.Engine.Git.Path)
	} else {
		engine, err := rules.LoadEngine(cfg.Engine.RulesFile)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		fmt.Fprintf(out, "✓ Rules valid: %d rule(s), %d keyword(s), catalog %s\n",
			len(engine.RuleIDs()), engine.KeywordCount(), engine.Version())
	}

	fmt.Fprintf(out, "✓ Listen address: %s\n", cfg.Server.ListenAddress)

	if cfg.Server.TLS.Enabled {
		if _, err := scouttls.ParseCipherSuites(cfg.Server.TLS.CipherSuites); err != nil {
			return cli.NewConfigError("server.tls.cipher_suites", err.Error())
		}
		info, err := scouttls.LoadCertificateInfo(cfg.Server.TLS.CertFile)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		fmt.Fprintf(out, "✓ TLS %s+: %s, expires %s\n",
			cfg.Server.TLS.MinVersion, info.Subject, info.NotAfter.Format("2006-01-02"))
	}
	if cfg.Server.Auth.Enabled {
		keys, err := auth.KeysFromConfig(cfg.Server.Auth)
		if err != nil {
			return cli.NewConfigError("server.auth.keys", err.Error())
		}
		fmt.Fprintf(out, "✓ API keys: %d\n", len(keys))
	}
	if cfg.Server.RateLimit.Enabled {
		fmt.Fprintf(out, "✓ Rate limit: %g req/s, burst %d\n",
			cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst)
	}
	if cfg.History.Enabled {
		fmt.Fprintf(out, "✓ History: %s\n", cfg.History.Backend)
	}
	fmt.Fprintln(out, "\nDry run complete. Configuration is valid.")
	return nil
}
