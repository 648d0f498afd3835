package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Chunks default to one second at 16 kHz so fixtures stay small.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "audio")
	cfgVal.Paths.SubtitleDir = filepath.Join(base, "script")
	cfgVal.Paths.TextDir = filepath.Join(base, "clean_text")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Transcription.ChunkSizeSeconds = 1
	cfgVal.Engine.URL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(builder.cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	return builder.cfg
}

// WithWorkers sets the number of recordings processed concurrently.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Workers = n
	}
}

// WithChunkSize overrides the chunk duration and sample rate.
func WithChunkSize(seconds float64, sampleRate int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.ChunkSizeSeconds = seconds
		b.cfg.Transcription.TargetSampleRate = sampleRate
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
