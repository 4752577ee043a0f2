// Package eventlog persists source lifecycle events to SQLite.
//
// The log follows the source registry: installs and removals arrive through
// the registry's change batches, while health transitions (fail, disable,
// enable, shutdown) arrive through a per-source lifecycle listener. Each
// event becomes one row in the source_events table, created by the embedded
// migrations.
//
//	Registry layer ──────────► Log (added / removed)
//	       │
//	       └─ per-source listener ──► Log (failed / disabled / enabled / shutdown)
//
// Writes happen on the goroutine that triggered the event, each with its own
// timeout. A failed write is logged and dropped; the event stream never
// blocks or fails source reconciliation.
//
// Usage:
//
//	log, err := eventlog.New(eventlog.Options{DB: db, Logger: logger})
//	if err != nil { ... }
//	log.Follow(registry)
//	defer log.Close()
package eventlog
