package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scribe/internal/audio"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// Options controls how a buffer is chunked.
type Options struct {
	ChunkSizeSeconds float64
	// SampleRate is the buffer's rate. Zero takes the rate from the buffer.
	SampleRate int
}

// Progress describes a chunk that has just been transcribed.
type Progress struct {
	Chunk    Chunk
	Total    int
	Segments int
	Elapsed  time.Duration
}

// Scheduler drives a Transcriber over consecutive chunks of a buffer.
type Scheduler struct {
	engine     Transcriber
	logger     *slog.Logger
	onProgress func(Progress)
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithProgress registers a callback invoked after each chunk completes.
func WithProgress(fn func(Progress)) SchedulerOption {
	return func(s *Scheduler) { s.onProgress = fn }
}

// NewScheduler builds a scheduler around engine.
func NewScheduler(engine Transcriber, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process transcribes buf chunk by chunk and returns the rebased timeline.
// Chunks run strictly in order. Any engine failure aborts the whole call with
// a *ChunkError and no partial timeline. The context is checked before each
// chunk starts; an in-flight engine call is left to the engine to honour.
func (s *Scheduler) Process(ctx context.Context, buf *audio.SampleBuffer, opts Options) (*Timeline, error) {
	if s == nil || s.engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "scheduler", "no transcriber configured", nil)
	}
	rate := opts.SampleRate
	if rate == 0 && buf != nil {
		rate = buf.SampleRate
	}
	size, err := ChunkSamples(opts.ChunkSizeSeconds, rate)
	if err != nil {
		return nil, err
	}
	if buf != nil && buf.SampleRate != 0 && buf.SampleRate != rate {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "sample rate",
			fmt.Sprintf("buffer is %d Hz but %d Hz was requested", buf.SampleRate, rate), nil)
	}

	timeline := &Timeline{}
	chunks := PlanChunks(buf.Len(), size)
	if len(chunks) == 0 {
		return timeline, nil
	}

	logger := logging.WithContext(ctx, s.logger)
	logger.Debug("chunk plan",
		logging.Int(logging.FieldChunkSamples, size),
		logging.Int(logging.FieldChunkCount, len(chunks)),
		logging.Float64("audio_seconds", buf.Seconds()),
	)

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transcription stopped before chunk %d of %d: %w", chunk.Index+1, len(chunks), err)
		}
		started := time.Now()
		res, err := s.engine.Transcribe(ctx, buf.Slice(chunk.Offset, chunk.Length), rate)
		if err == nil {
			err = res.Validate()
		}
		if err != nil {
			chunkErr := &ChunkError{
				Index:      chunk.Index,
				Start:      chunk.Offset,
				End:        chunk.End(),
				SampleRate: rate,
				Err:        err,
			}
			logging.ErrorWithContext(logger, "chunk transcription failed", "chunk_failed",
				logging.Int(logging.FieldChunkIndex, chunk.Index+1),
				logging.Int(logging.FieldChunkCount, len(chunks)),
				logging.String("chunk_start", FormatTimestamp(chunkErr.StartSeconds())),
				logging.String("chunk_end", FormatTimestamp(chunkErr.EndSeconds())),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the ASR engine logs; the recording produced no output"),
			)
			return nil, chunkErr
		}

		timeline.append(res, chunk.StartSeconds(rate))
		elapsed := time.Since(started)
		logger.Info("chunk transcribed",
			logging.Int(logging.FieldChunkIndex, chunk.Index+1),
			logging.Int(logging.FieldChunkCount, len(chunks)),
			logging.String("chunk_start", FormatTimestamp(chunk.StartSeconds(rate))),
			logging.String("chunk_end", FormatTimestamp(chunk.EndSeconds(rate))),
			logging.Int("segments", len(res.Segments)),
			logging.Duration("elapsed", elapsed),
		)
		if s.onProgress != nil {
			s.onProgress(Progress{Chunk: chunk, Total: len(chunks), Segments: len(res.Segments), Elapsed: elapsed})
		}
	}
	return timeline, nil
}

// IsChunkFailure reports whether err came from a failed chunk and returns it.
func IsChunkFailure(err error) (*ChunkError, bool) {
	var chunkErr *ChunkError
	if errors.As(err, &chunkErr) {
		return chunkErr, true
	}
	return nil, false
}
