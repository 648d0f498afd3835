package services_test

import (
	"errors"
	"strings"
	"testing"

	"scribe/internal/history"
	"scribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIO, "emit", "write srt", "rename failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"emit", "write srt", "rename failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "scheduler", "validate", "chunk size must be positive", nil)
	if status := services.FailureStatus(configErr); status != history.StatusInvalid {
		t.Fatalf("expected invalid for configuration error, got %s", status)
	}

	asrErr := services.Wrap(services.ErrTranscription, "scheduler", "chunk 2", "engine failed", errors.New("503"))
	if status := services.FailureStatus(asrErr); status != history.StatusFailed {
		t.Fatalf("expected failed for transcription error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != history.StatusSucceeded {
		t.Fatalf("expected succeeded for nil error, got %s", status)
	}
}
