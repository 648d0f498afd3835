package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionTarget names a directory of logs to prune. Files matching Pattern
// are candidates; paths in Exclude are kept regardless of age.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs deletes candidate files last modified more than
// retentionDays ago and returns how many were removed. Zero or negative
// retention keeps everything.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed := 0
	for _, target := range targets {
		for _, path := range expiredLogs(target, cutoff) {
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "old log could not be removed", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on log_dir"),
				)
				continue
			}
			removed++
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}

func expiredLogs(target RetentionTarget, cutoff time.Time) []string {
	dir := strings.TrimSpace(target.Dir)
	if dir == "" {
		return nil
	}
	pattern := strings.TrimSpace(target.Pattern)
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}

	keep := make(map[string]bool, len(target.Exclude))
	for _, path := range target.Exclude {
		if abs, err := filepath.Abs(strings.TrimSpace(path)); err == nil && path != "" {
			keep[abs] = true
		}
	}

	var expired []string
	for _, path := range matches {
		abs, err := filepath.Abs(path)
		if err != nil || keep[abs] {
			continue
		}
		info, err := os.Lstat(abs)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}
		expired = append(expired, abs)
	}
	return expired
}
