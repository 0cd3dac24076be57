// Package watch keeps the knowledge graph synchronized with the filesystem.
//
// The package consists of two components:
//
//   - Watcher: a recursive fsnotify wrapper that emits the paths of changed
//     markdown files, extending its coverage to directories created while
//     watching
//   - Pipeline: the orchestrator that debounces those notifications,
//     classifies each one as create/modify/delete against disk state and
//     the cache, runs the delta engine, and publishes ordered change events
//
// # Event flow
//
//  1. A filesystem change is detected by fsnotify
//  2. The notification is debounced (300ms) so rapid changes to the same
//     path collapse into one logical event
//  3. The delta engine compares the change against the cached state
//  4. The resulting delta is flattened into discrete events
//     (node-removed, edge-added, ...) on the pipeline's event channel
//
// # Usage
//
//	docs, _ := scan.Dir(root)
//	p, err := watch.New(root, cache.Seed(docs), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Stop()
//
//	for ev := range p.Events() {
//	    // apply ev to the rendered graph
//	}
//
// Processing is strictly sequential: one worker drains the debounced queue
// and holds the cache lock for each full read-compute-commit sequence.
// Per-event errors are logged and skipped without mutating the cache; only
// Stop ends the worker.
package watch
