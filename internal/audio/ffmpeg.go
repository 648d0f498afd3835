package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"scribe/internal/services"
)

// CommandRunner executes name with args and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpegDecoder decodes any ffmpeg-readable input to mono float32 PCM.
type FFmpegDecoder struct {
	binary string
	runner CommandRunner
}

// NewFFmpegDecoder constructs a decoder that invokes binary (default "ffmpeg").
func NewFFmpegDecoder(binary string) *FFmpegDecoder {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpegDecoder{binary: binary, runner: defaultCommandRunner}
}

// WithCommandRunner sets a custom command runner (for testing).
func (d *FFmpegDecoder) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		d.runner = runner
	}
}

// Decode runs ffmpeg and parses its raw f32le output.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string, targetRate int) (*SampleBuffer, error) {
	if targetRate <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "decode", "ffmpeg", fmt.Sprintf("invalid sample rate %d", targetRate), nil)
	}
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(targetRate),
		"-f", "f32le",
		"-",
	}
	out, err := d.runner(ctx, d.binary, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", path, err)
	}
	samples, err := parseFloat32LE(out)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "parse pcm", path, err)
	}
	return &SampleBuffer{Samples: samples, SampleRate: targetRate}, nil
}

func parseFloat32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("pcm stream length %d is not a multiple of 4", len(data))
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples, nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
