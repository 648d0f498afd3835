package audio

// SampleBuffer holds mono PCM samples in [-1, 1] at SampleRate.
type SampleBuffer struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of samples.
func (b *SampleBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Samples)
}

// Seconds returns the buffer length in seconds.
func (b *SampleBuffer) Seconds() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Slice returns up to n samples starting at off, clamped to the buffer.
// The returned slice aliases the buffer.
func (b *SampleBuffer) Slice(off, n int) []float32 {
	if b == nil || off < 0 || n <= 0 || off >= len(b.Samples) {
		return nil
	}
	end := off + n
	if end > len(b.Samples) {
		end = len(b.Samples)
	}
	return b.Samples[off:end]
}
