package services_test

import (
	"context"
	"testing"

	"scribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithRecording(ctx, "lecture01")
	ctx = services.WithStage(ctx, "transcribe")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if name, ok := services.RecordingFromContext(ctx); !ok || name != "lecture01" {
		t.Fatalf("unexpected recording: %v %v", name, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithRecording(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.RecordingFromContext(ctx); ok {
		t.Fatal("expected no recording value")
	}
}
