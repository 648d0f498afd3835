package asr

import (
	"fmt"
	"os"

	"scribe/internal/audio"
)

// writeChunkFile stores samples as a temporary WAV in dir and returns its
// path with a cleanup func.
func writeChunkFile(dir string, samples []float32, sampleRate int) (string, func(), error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, fmt.Errorf("ensure work dir: %w", err)
		}
	}
	file, err := os.CreateTemp(dir, "chunk-*.wav")
	if err != nil {
		return "", nil, fmt.Errorf("create chunk file: %w", err)
	}
	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }
	if err := audio.WriteWAV(file, samples, sampleRate); err != nil {
		_ = file.Close()
		cleanup()
		return "", nil, fmt.Errorf("encode chunk wav: %w", err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close chunk file: %w", err)
	}
	return path, cleanup, nil
}
