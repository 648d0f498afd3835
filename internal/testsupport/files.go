package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/audio"
)

// WriteWAV writes seconds of silence at sampleRate to path as 16-bit mono WAV.
func WriteWAV(t testing.TB, path string, seconds float64, sampleRate int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	samples := make([]float32, int(seconds*float64(sampleRate)))
	if err := audio.WriteWAV(f, samples, sampleRate); err != nil {
		_ = f.Close()
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

// WriteFile fills path with size bytes of a repeating pattern. A size <= 0
// writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
