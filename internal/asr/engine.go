package asr

import (
	"context"

	"scribe/internal/transcript"
)

// Engine is a Transcriber that can also report whether its backend is
// reachable.
type Engine interface {
	transcript.Transcriber
	IsAvailable(ctx context.Context) error
	Describe() string
}
