package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"scribe/internal/audio"
	"scribe/internal/transcript"
)

// FakeTranscriber answers every chunk with one segment, word, and char
// spanning the first half second. Calls whose samples are tagged by a
// FakeDecoder failure marker fail.
type FakeTranscriber struct {
	mu    sync.Mutex
	calls int
	// FailOnCall fails the nth call overall (1-based) when set.
	FailOnCall int
}

// Calls returns how many chunks were transcribed.
func (f *FakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, samples []float32, _ int) (*transcript.ChunkResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if call == f.FailOnCall {
		return nil, errors.New("fake engine failure")
	}
	if len(samples) > 0 && samples[0] == FailMarker {
		return nil, errors.New("fake engine rejected chunk")
	}
	text := fmt.Sprintf("chunk %d", call)
	return &transcript.ChunkResult{
		Segments: []transcript.Stamp{{Text: text, Start: 0, End: 0.5}},
		Words:    []transcript.Stamp{{Text: text, Start: 0, End: 0.5}},
		Chars:    []transcript.Stamp{{Text: "c", Start: 0, End: 0.1}},
	}, nil
}

// FailMarker as the first sample of a chunk makes FakeTranscriber fail it.
const FailMarker float32 = -0.987654

// FakeDecoder returns silent buffers of a fixed length per path without
// touching the file contents.
type FakeDecoder struct {
	// Seconds maps input paths to decoded durations. Unlisted paths decode to
	// DefaultSeconds.
	Seconds        map[string]float64
	DefaultSeconds float64
	// FailChunk maps input paths to a 0-based chunk index whose first sample
	// carries FailMarker.
	FailChunk map[string]int
	// ChunkSeconds must match the configured chunk size for FailChunk.
	ChunkSeconds float64
	// Errors maps input paths to decode errors.
	Errors map[string]error
}

func (d *FakeDecoder) Decode(_ context.Context, path string, targetRate int) (*audio.SampleBuffer, error) {
	if err, ok := d.Errors[path]; ok {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	seconds, ok := d.Seconds[path]
	if !ok {
		seconds = d.DefaultSeconds
	}
	samples := make([]float32, int(seconds*float64(targetRate)))
	if idx, ok := d.FailChunk[path]; ok {
		offset := int(float64(idx) * d.ChunkSeconds * float64(targetRate))
		if offset < len(samples) {
			samples[offset] = FailMarker
		}
	}
	return &audio.SampleBuffer{Samples: samples, SampleRate: targetRate}, nil
}
