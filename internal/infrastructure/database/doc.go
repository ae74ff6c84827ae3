// Package database owns the SQLite connection pool for the smart house API.
//
// This package manages:
//   - Opening the database with foreign keys enforced and optional WAL mode
//   - Bounding the connection pool (max open / idle connections, lifetimes)
//   - Applying and rolling back embedded schema migrations
//   - Health checks and pool statistics
//
// Handlers never open connections themselves: each repository call checks a
// connection out of the pool for the duration of one statement (or one
// transaction) and returns it. When every connection is busy the caller blocks
// until one is released or its context expires.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "data/smarthouse.db", WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
