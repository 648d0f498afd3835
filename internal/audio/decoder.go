package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"scribe/internal/config"
)

// Decoder loads a recording as a mono buffer at targetRate.
type Decoder interface {
	Decode(ctx context.Context, path string, targetRate int) (*SampleBuffer, error)
}

// NewDecoder returns the decoder for kind: "ffmpeg", "wav", or "auto" which
// reads .wav files in-process and sends everything else through ffmpeg.
func NewDecoder(kind, ffmpegBinary string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case config.DecoderFFmpeg:
		return NewFFmpegDecoder(ffmpegBinary), nil
	case config.DecoderWAV:
		return &WAVDecoder{}, nil
	case config.DecoderAuto, "":
		return &autoDecoder{wav: &WAVDecoder{}, ffmpeg: NewFFmpegDecoder(ffmpegBinary)}, nil
	default:
		return nil, fmt.Errorf("unsupported decoder %q", kind)
	}
}

type autoDecoder struct {
	wav    Decoder
	ffmpeg Decoder
}

func (d *autoDecoder) Decode(ctx context.Context, path string, targetRate int) (*SampleBuffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return d.wav.Decode(ctx, path, targetRate)
	}
	return d.ffmpeg.Decode(ctx, path, targetRate)
}
