// Package history persists batch runs and per-recording outcomes in SQLite.
//
// Every `scribe transcribe` invocation opens a run, records one row per
// recording (succeeded, failed, skipped, or invalid) with its chunk and stamp
// counts and artifact paths, and closes the run with aggregate totals. The CLI
// reads the same store to render `scribe history`.
//
// The store uses modernc.org/sqlite in WAL mode and retries briefly on
// SQLITE_BUSY so concurrent workers can record results without coordination.
package history
