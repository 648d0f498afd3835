package audio

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"scribe/internal/services"
)

const (
	resampleQuality = 4
	streamBlock     = 4096
)

// WAVDecoder reads WAV files in-process, mixing to mono and resampling to
// the target rate.
type WAVDecoder struct{}

// Decode loads path. Cancellation is checked between blocks.
func (WAVDecoder) Decode(ctx context.Context, path string, targetRate int) (*SampleBuffer, error) {
	if targetRate <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "decode", "wav", fmt.Sprintf("invalid sample rate %d", targetRate), nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "decode", "open input", path, err)
	}
	defer file.Close()

	streamer, format, err := wav.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "decode", "read wav header", path, err)
	}
	defer streamer.Close()

	gain := pcmGain(format.Precision)
	var source beep.Streamer = streamer
	if int(format.SampleRate) != targetRate {
		source = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(targetRate), streamer)
	}

	expected := streamer.Len()
	if int(format.SampleRate) != targetRate && format.SampleRate > 0 {
		expected = int(int64(expected) * int64(targetRate) / int64(format.SampleRate))
	}
	samples := make([]float32, 0, expected)
	block := make([][2]float64, streamBlock)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, ok := source.Stream(block)
		for _, frame := range block[:n] {
			samples = append(samples, float32(gain*(frame[0]+frame[1])/2))
		}
		if !ok {
			break
		}
	}
	if err := source.Err(); err != nil {
		return nil, services.Wrap(services.ErrIO, "decode", "read wav samples", path, err)
	}
	return &SampleBuffer{Samples: samples, SampleRate: targetRate}, nil
}

// pcmGain undoes beep's signed PCM scaling, which divides by the full
// unsigned range (2^bits - 1) rather than the signed peak (2^(bits-1) - 1).
// 8-bit WAV is unsigned and decodes to [-1, 1] already.
func pcmGain(precision int) float64 {
	if precision < 2 {
		return 1
	}
	bits := float64(precision * 8)
	return (math.Exp2(bits) - 1) / (math.Exp2(bits-1) - 1)
}
