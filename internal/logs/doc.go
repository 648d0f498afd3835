// Package logs finds and tails the per-run log files written by scribe.
//
// Every batch writes its own log under log_dir. Locate maps a run id (as
// listed by "scribe history") to that file, and Tail/Follow back the
// "scribe logs" command with bounded memory.
package logs
