package services

import (
	"errors"
	"fmt"
	"strings"

	"scribe/internal/history"
)

var (
	// ErrConfiguration marks invalid settings detected before any work starts.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrTranscription marks an ASR engine call that failed or returned a
	// malformed result for a chunk.
	ErrTranscription = errors.New("transcription failure")
	// ErrIO marks artifact or input file failures.
	ErrIO           = errors.New("io failure")
	ErrExternalTool = errors.New("external tool error")
	ErrTimeout      = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a recording error to the history status the batch runner
// should persist.
func FailureStatus(err error) history.Status {
	switch {
	case err == nil:
		return history.StatusSucceeded
	case errors.Is(err, ErrConfiguration):
		return history.StatusInvalid
	default:
		return history.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
