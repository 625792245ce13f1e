// Package gitsource serves the rule catalog from a Git repository.
//
// A Repository keeps a local clone of the configured branch. A Poller pulls
// it on a fixed interval and, when the commit range touches the rules file,
// reloads the catalog into a conflict.Swappable:
//
//	repo, err := gitsource.NewRepository(cfg.Engine.Git)
//	if err != nil {
//	    return err
//	}
//	if err := repo.Clone(ctx); err != nil {
//	    return err
//	}
//
//	poller, err := gitsource.NewPoller(repo, analyzer, gitsource.PollerConfig{
//	    Interval: cfg.Engine.Git.Poll.Interval,
//	    Timeout:  cfg.Engine.Git.Poll.Timeout,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := poller.Load(); err != nil {
//	    return err
//	}
//	if err := poller.Start(ctx); err != nil {
//	    return err
//	}
//	defer poller.Stop()
//
// A commit whose catalog fails to load is never served: the clone is checked
// out back at the last commit that loaded, the previous engine stays active,
// and the rejected commit is skipped by later polls until the branch moves
// past it.
package gitsource
