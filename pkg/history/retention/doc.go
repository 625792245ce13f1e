// Package retention prunes the analysis history.
//
// Pruner deletes records older than history.retention.days and, when
// history.retention.max_records is set, the oldest records beyond that
// count. Scheduler runs the pruner on a cron schedule
// (history.retention.schedule, standard five-field syntax):
//
//	pruner := retention.NewPruner(store, retention.ConfigFrom(cfg.History.Retention))
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
//
// `scout history prune` calls Prune directly.
package retention
