// Package logging assembles structured slog loggers and formatting helpers used
// across scribe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, recording names, and stages. Each batch run writes its
// own log file under log_dir; CleanupOldLogs prunes files past retention.
package logging
