package logs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scribe/internal/logging"
)

// ErrNoLogs is returned when no run log matches.
var ErrNoLogs = errors.New("no run logs found")

// Locate returns the log file of runID in dir. An empty runID selects the
// most recent run. Run logs carry a sortable timestamp, so the newest is the
// last name in lexical order.
func Locate(dir, runID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.LogFilePattern))
	if err != nil {
		return "", fmt.Errorf("list run logs: %w", err)
	}
	if runID = strings.TrimSpace(runID); runID != "" {
		suffix := "-" + logging.ShortRunID(runID) + ".log"
		filtered := matches[:0]
		for _, m := range matches {
			if strings.HasSuffix(m, suffix) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	matches = regularFiles(matches)
	if len(matches) == 0 {
		if runID != "" {
			return "", fmt.Errorf("%w for run %s in %s", ErrNoLogs, runID, dir)
		}
		return "", fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func regularFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	return out
}
