package transcript

import (
	"fmt"
	"math"

	"scribe/internal/services"
)

// Chunk is the half-open sample range [Offset, Offset+Length).
type Chunk struct {
	Index  int
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (c Chunk) End() int {
	return c.Offset + c.Length
}

// StartSeconds returns the chunk start on the global timeline.
func (c Chunk) StartSeconds(sampleRate int) float64 {
	return float64(c.Offset) / float64(sampleRate)
}

// EndSeconds returns the chunk end on the global timeline.
func (c Chunk) EndSeconds(sampleRate int) float64 {
	return float64(c.End()) / float64(sampleRate)
}

// ChunkSamples converts a chunk duration to a sample count,
// floor(chunkSizeSeconds * sampleRate), rejecting values that yield no
// samples.
func ChunkSamples(chunkSizeSeconds float64, sampleRate int) (int, error) {
	if !(chunkSizeSeconds > 0) || math.IsInf(chunkSizeSeconds, 0) {
		return 0, services.Wrap(services.ErrConfiguration, "transcribe", "chunk size",
			fmt.Sprintf("chunk_size_seconds must be positive, got %v", chunkSizeSeconds), nil)
	}
	if sampleRate <= 0 {
		return 0, services.Wrap(services.ErrConfiguration, "transcribe", "sample rate",
			fmt.Sprintf("sample rate must be positive, got %d", sampleRate), nil)
	}
	size := math.Floor(chunkSizeSeconds * float64(sampleRate))
	if size < 1 {
		return 0, services.Wrap(services.ErrConfiguration, "transcribe", "chunk size",
			fmt.Sprintf("%vs at %d Hz is shorter than one sample", chunkSizeSeconds, sampleRate), nil)
	}
	if size >= float64(math.MaxInt) {
		return 0, services.Wrap(services.ErrConfiguration, "transcribe", "chunk size",
			fmt.Sprintf("%vs at %d Hz exceeds the addressable sample count", chunkSizeSeconds, sampleRate), nil)
	}
	return int(size), nil
}

// PlanChunks covers [0, total) with consecutive chunks of size samples; the
// last chunk is shorter when total is not a multiple of size.
func PlanChunks(total, size int) []Chunk {
	if total <= 0 || size <= 0 {
		return nil
	}
	chunks := make([]Chunk, 0, (total+size-1)/size)
	for offset := 0; offset < total; offset += size {
		length := size
		if remaining := total - offset; remaining < length {
			length = remaining
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Offset: offset, Length: length})
	}
	return chunks
}
