package audio

import (
	"errors"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// WriteWAV encodes mono samples as 16-bit PCM WAV. Samples outside [-1, 1]
// are clamped.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return errors.New("write wav: sample rate must be positive")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	return wav.Encode(w, &sliceStreamer{samples: samples}, format)
}

// sliceStreamer plays a mono float32 slice as a beep stream.
type sliceStreamer struct {
	samples []float32
	pos     int
}

func (s *sliceStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy32(out, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func copy32(out [][2]float64, src []float32) int {
	n := len(out)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		v := float64(src[i])
		switch {
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		out[i][0], out[i][1] = v, v
	}
	return n
}
