package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transcriber is an ASR engine that handles one short chunk at a time.
// Stamps in the result are relative to the start of the chunk.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (*ChunkResult, error)
}

// ChunkResult is the engine output for one chunk. A nil slice means the
// engine omitted that granularity; a chunk with no speech carries empty,
// non-nil slices.
type ChunkResult struct {
	Segments []Stamp
	Words    []Stamp
	Chars    []Stamp
}

// ErrMalformedResult reports an engine result missing a timestamp granularity.
var ErrMalformedResult = errors.New("malformed engine result")

// Validate returns ErrMalformedResult when any granularity is missing.
func (r *ChunkResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: no result", ErrMalformedResult)
	}
	var missing []string
	if r.Segments == nil {
		missing = append(missing, "segment")
	}
	if r.Words == nil {
		missing = append(missing, "word")
	}
	if r.Chars == nil {
		missing = append(missing, "char")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s timestamps", ErrMalformedResult, strings.Join(missing, ", "))
	}
	return nil
}
