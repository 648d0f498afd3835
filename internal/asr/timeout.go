package asr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scribe/internal/services"
	"scribe/internal/transcript"
)

type timeoutEngine struct {
	Engine
	limit time.Duration
}

// WithTimeout bounds each Transcribe call to limit. Expiry is reported as
// services.ErrTimeout. A non-positive limit returns engine unchanged.
func WithTimeout(engine Engine, limit time.Duration) Engine {
	if engine == nil || limit <= 0 {
		return engine
	}
	return &timeoutEngine{Engine: engine, limit: limit}
}

func (e *timeoutEngine) Transcribe(ctx context.Context, samples []float32, sampleRate int) (*transcript.ChunkResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.limit)
	defer cancel()

	res, err := e.Engine.Transcribe(callCtx, samples, sampleRate)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return nil, services.Wrap(services.ErrTimeout, "transcribe", "engine call",
			fmt.Sprintf("no result within %s", e.limit), err)
	}
	return res, err
}
