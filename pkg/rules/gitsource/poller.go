package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/rules"
)

// DefaultPollInterval is used when PollerConfig.Interval is zero.
const DefaultPollInterval = time.Minute

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval between pulls.
	Interval time.Duration

	// Timeout bounds each pull.
	Timeout time.Duration
}

// Poller pulls a Repository on a fixed interval and republishes the rules
// catalog whenever the rules file changes.
type Poller struct {
	repo     *Repository
	target   *conflict.Swappable
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	hooksMu sync.RWMutex
	hooks   []rules.ReloadHook

	// checkMu serializes Load and Check.
	checkMu  sync.Mutex
	lastGood string
	rejected string

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller for repo that publishes into target.
func NewPoller(repo *Repository, target *conflict.Swappable, cfg PollerConfig, logger *slog.Logger) (*Poller, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if target == nil {
		return nil, errors.New("swappable target is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Poller{
		repo:     repo,
		target:   target,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger.With("component", "rules.gitsource"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers a hook that runs after every reload attempt.
func (p *Poller) OnReload(hook rules.ReloadHook) {
	p.hooksMu.Lock()
	defer p.hooksMu.Unlock()
	p.hooks = append(p.hooks, hook)
}

// Load loads the rules file at the checked-out commit and publishes it. The
// commit becomes the rollback target for later failed reloads.
func (p *Poller) Load() error {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()

	commit, err := p.repo.CurrentCommit()
	if err != nil {
		return err
	}
	if err := p.reload(); err != nil {
		return err
	}
	p.lastGood = commit.SHA
	return nil
}

// Check pulls once and reloads if the rules file changed. It reports whether
// a new catalog was published.
func (p *Poller) Check(ctx context.Context) (bool, error) {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()

	pullCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.repo.Pull(pullCtx)
	if err != nil {
		return false, err
	}
	if !result.HadChanges {
		return false, nil
	}

	if result.ToSHA == p.rejected {
		// The branch still points at a commit that already failed to load.
		if err := p.repo.Rollback(ctx, p.lastGood); err != nil {
			return false, fmt.Errorf("failed to roll back rejected commit: %w", err)
		}
		p.logger.Debug("Skipping rejected commit", "sha", short(result.ToSHA))
		return false, nil
	}

	p.logger.Info("Detected changes",
		"from_sha", short(result.FromSHA),
		"to_sha", short(result.ToSHA),
		"changed_files", len(result.ChangedFiles),
	)

	if !p.touchesRules(result.ChangedFiles) {
		p.lastGood = result.ToSHA
		p.logger.Info("Rules file unchanged, skipping reload", "changed_files", result.ChangedFiles)
		return false, nil
	}

	if err := p.reload(); err != nil {
		p.rejected = result.ToSHA
		if p.lastGood == "" {
			return false, fmt.Errorf("catalog at %s rejected: %w", short(result.ToSHA), err)
		}
		if rbErr := p.repo.Rollback(ctx, p.lastGood); rbErr != nil {
			p.logger.Error("Rollback failed", "target_sha", short(p.lastGood), "error", rbErr)
			return false, fmt.Errorf("catalog at %s rejected and rollback failed: %w (rollback: %v)", short(result.ToSHA), err, rbErr)
		}
		p.logger.Warn("Rolled back to last good commit",
			"rejected_sha", short(result.ToSHA),
			"sha", short(p.lastGood),
		)
		return false, fmt.Errorf("catalog at %s rejected: %w", short(result.ToSHA), err)
	}

	p.lastGood = result.ToSHA
	p.rejected = ""
	return true, nil
}

// reload loads the rules file, notifies hooks, and publishes on success.
func (p *Poller) reload() error {
	start := time.Now()
	engine, err := rules.LoadEngine(p.repo.RulesPath())

	p.hooksMu.RLock()
	for _, hook := range p.hooks {
		hook(engine, err)
	}
	p.hooksMu.RUnlock()

	if err != nil {
		p.logger.Error("Rules reload failed, keeping previous catalog", "error", err)
		return err
	}

	p.target.Replace(engine)
	p.logger.Info("Rules reloaded",
		"version", engine.Version(),
		"rules", len(engine.RuleIDs()),
		"duration", time.Since(start),
	)
	return nil
}

func (p *Poller) touchesRules(files []string) bool {
	want := p.repo.RelativeRulesPath()
	for _, f := range files {
		if path.Clean(f) == want {
			return true
		}
	}
	return false
}

// LastGoodCommit returns the SHA the active catalog was loaded from.
func (p *Poller) LastGoodCommit() string {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()
	return p.lastGood
}

// Start runs the poll loop in the background until ctx is cancelled or Stop
// is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("poller already running")
	}
	select {
	case <-p.stopCh:
		return errors.New("poller stopped")
	default:
	}
	p.running = true

	p.logger.Info("Git poller started", "poll_interval", p.interval, "commit", short(p.LastGoodCommit()))
	go p.loop(ctx)
	return nil
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if _, err := p.Check(ctx); err != nil {
				p.logger.Error("Error checking for changes", "error", err)
			}
		}
	}
}

// Stop ends the poll loop and waits for it to exit. It is safe to call more
// than once and before Start.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	p.mu.Lock()
	running := p.running
	p.mu.Unlock()

	if running {
		<-p.doneCh
	}
}

func short(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
