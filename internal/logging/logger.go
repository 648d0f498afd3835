package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scribe/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, err
	}
	return newLogger(writer, opts.Format, levelVar, opts.Development || level <= slog.LevelDebug)
}

// NewWithWriter builds a logger that writes to w; used by tests and callers
// that manage their own sinks.
func NewWithWriter(w io.Writer, opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return newLogger(w, opts.Format, levelVar, opts.Development)
}

func newLogger(w io.Writer, format string, levelVar *slog.LevelVar, addSource bool) (*slog.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.New(newJSONHandler(w, levelVar, addSource)), nil
	case "console", "":
		return slog.New(newPrettyHandler(w, levelVar, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

// NewFromConfig creates a logger writing to stderr and, when log_dir is set,
// to a per-run log file. It returns the log file path (empty when none).
func NewFromConfig(cfg *config.Config, runID string) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{Level: "info", Format: "console"})
		return logger, "", err
	}

	outputs := []string{"stderr"}
	var logPath string
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" && strings.TrimSpace(runID) != "" {
		logPath = RunLogPath(dir, runID, time.Now())
		outputs = append(outputs, logPath)
	}

	logger, err := New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, "", err
	}
	return logger, logPath, nil
}

// RunLogPath returns the log file location for a run started at ts.
func RunLogPath(dir, runID string, ts time.Time) string {
	name := fmt.Sprintf("%s-%s-%s.log", logFilePrefix, ts.Format("20060102T150405"), ShortRunID(runID))
	return filepath.Join(dir, name)
}

// ShortRunID is the run id prefix used in log file names.
func ShortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

const logFilePrefix = "scribe"

// LogFilePattern matches files produced by RunLogPath.
const LogFilePattern = logFilePrefix + "-*.log"

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		value = fallback
	}
	cp := make([]string, len(value))
	copy(cp, value)
	return cp
}

func openWriters(paths []string) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
