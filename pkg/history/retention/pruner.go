package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/history"
)

// Config contains configuration for the pruner.
type Config struct {
	// RetentionDays is how long records are kept. 0 keeps them forever.
	RetentionDays int

	// MaxRecords caps the number of stored records. 0 means unlimited.
	MaxRecords int64

	// Schedule is the cron expression the Scheduler runs on. Empty
	// disables scheduled pruning.
	Schedule string
}

// ConfigFrom converts the history.retention configuration section.
func ConfigFrom(c config.RetentionConfig) Config {
	return Config{
		RetentionDays: c.Days,
		MaxRecords:    c.MaxRecords,
		Schedule:      c.Schedule,
	}
}

// Pruner enforces the retention policy on a history storage.
type Pruner struct {
	storage   history.Storage
	config    Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
	onPrune   func(deleted int64)
}

// NewPruner creates a pruner for storage.
func NewPruner(storage history.Storage, cfg Config) *Pruner {
	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// OnPrune installs fn to be called with the number of records each
// successful Prune deleted. Call before Start.
func (p *Pruner) OnPrune(fn func(deleted int64)) {
	p.onPrune = fn
}

// Prune deletes records older than the retention period, then the oldest
// records beyond MaxRecords. It returns the total deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, p.retentionError(fmt.Errorf("prune by age failed: %w", err))
		}
		total += deleted
		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, p.retentionError(fmt.Errorf("prune by count failed: %w", err))
		}
		total += deleted
		p.logger.Debug("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	if p.onPrune != nil {
		p.onPrune(total)
	}

	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	// Until is inclusive, so step back one nanosecond to keep a record
	// recorded exactly at the cutoff.
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays).Add(-time.Nanosecond)
	return p.storage.Delete(ctx, &history.Query{Until: &cutoff})
}

// pruneByCount deletes the oldest records until at most MaxRecords remain.
// Records sharing the cutoff timestamp are deleted together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &history.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	excess := count - p.config.MaxRecords
	var deleted int64

	for excess > 0 {
		batch := int(min(excess, int64(history.MaxLimit)))
		oldest, err := p.storage.Query(ctx, &history.Query{
			Limit:     batch,
			SortOrder: history.SortAsc,
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to query oldest records: %w", err)
		}
		if len(oldest) == 0 {
			break
		}

		cutoff := oldest[len(oldest)-1].RecordedAt
		n, err := p.storage.Delete(ctx, &history.Query{Until: &cutoff})
		if err != nil {
			return deleted, fmt.Errorf("delete failed: %w", err)
		}
		deleted += n
		excess -= n
		if n == 0 {
			break
		}
	}

	return deleted, nil
}

func (p *Pruner) retentionError(err error) error {
	return history.NewRetentionError(p.config.RetentionDays, p.config.MaxRecords, err)
}

// Start starts scheduled pruning.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled run, or nil when not scheduled.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
