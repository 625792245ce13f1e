// Package rules loads ingredient-conflict rule catalogs from YAML files and
// keeps a running engine in sync with them.
//
// # File Format
//
//	version: "1"
//	keywords: [retinol, aha, bha, salicylic, benzoyl]
//	families:
//	  - name: retinoid
//	    triggers: [retinol]
//	  - name: hydroxy_acid
//	    triggers: [aha, bha, salicylic, glycolic, lactic]
//	rules:
//	  - id: retinoid_acid
//	    priority: 100
//	    families: [retinoid, hydroxy_acid]
//	    summary: "..."
//	summaries:
//	  multiple_actives: "..."
//	  safe: "..."
//
// # Validation
//
// A file passes three stages before it can replace a running engine:
//
//  1. File checks: existence, regular file, size limit, UTF-8 encoding
//  2. Structural checks against the embedded JSON Schema (Schema)
//  3. Semantic checks performed by conflict.NewRuleEngine (unknown families,
//     duplicate rule IDs, empty triggers)
//
// Keywords and triggers are lower-cased on load, so authors may write them in
// any case.
//
// # Hot Reload
//
// Watcher observes the directory containing the rules file through fsnotify,
// debounces bursts of events and publishes freshly compiled engines through a
// conflict.Swappable. A file that fails validation never replaces the active
// engine; the previous one keeps serving.
//
//	target := conflict.NewSwappable(engine)
//	w, err := rules.NewWatcher(rules.WatcherConfig{Path: path}, target, logger)
//	if err != nil {
//	    return err
//	}
//	go w.Watch(ctx)
//	defer w.Stop()
package rules
