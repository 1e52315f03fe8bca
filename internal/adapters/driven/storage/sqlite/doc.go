// Package sqlite provides the persistent storage adapter backed by a
// single SQLite database file.
//
// One Store owns the database connection and hands out the driven store
// interfaces (bindings, datasets, scheduler state) as thin wrappers over
// it. Schema changes ship as embedded SQL migrations applied on open.
//
// The driver is modernc.org/sqlite, a pure-Go port, so builds stay
// CGO-free.
package sqlite
