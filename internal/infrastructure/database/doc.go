// Package database opens and migrates the radiomux SQLite state database.
//
// One file holds the spot log, the source event history and the schema
// migration bookkeeping. WAL mode keeps event history reads from blocking
// spot inserts, and the pool is pinned to a single connection to match
// SQLite's single-writer model.
//
// Schema changes ship as embedded .up.sql/.down.sql pairs (see the
// migrations package) and are applied with Migrate:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migrations are additive where possible: new columns get defaults, and
// every up file has a matching down file so MigrateDown can step back one
// version during development.
package database
