package asr

import (
	"context"

	"scribe/internal/transcript"
)

type serializedEngine struct {
	Engine
	slot chan struct{}
}

// Serialized allows at most one Transcribe call on engine at a time. Waiting
// callers give up when their context ends.
func Serialized(engine Engine) Engine {
	if engine == nil {
		return nil
	}
	return &serializedEngine{Engine: engine, slot: make(chan struct{}, 1)}
}

func (e *serializedEngine) Transcribe(ctx context.Context, samples []float32, sampleRate int) (*transcript.ChunkResult, error) {
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.slot }()
	return e.Engine.Transcribe(ctx, samples, sampleRate)
}
