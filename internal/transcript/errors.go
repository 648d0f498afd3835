package transcript

import (
	"fmt"

	"scribe/internal/services"
)

// ChunkError reports the chunk whose transcription failed. It matches
// services.ErrTranscription as well as the underlying cause.
type ChunkError struct {
	Index      int
	Start      int
	End        int
	SampleRate int
	Err        error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%v: chunk %d samples [%d, %d) (%s to %s): %v",
		services.ErrTranscription, e.Index, e.Start, e.End,
		FormatTimestamp(e.StartSeconds()), FormatTimestamp(e.EndSeconds()), e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{services.ErrTranscription, e.Err}
}

// StartSeconds returns the failed chunk's start on the global timeline.
func (e *ChunkError) StartSeconds() float64 {
	if e.SampleRate <= 0 {
		return 0
	}
	return float64(e.Start) / float64(e.SampleRate)
}

// EndSeconds returns the failed chunk's end on the global timeline.
func (e *ChunkError) EndSeconds() float64 {
	if e.SampleRate <= 0 {
		return 0
	}
	return float64(e.End) / float64(e.SampleRate)
}
