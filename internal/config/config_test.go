package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scribe/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "scribe", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if !filepath.IsAbs(cfg.Paths.InputDir) || filepath.Base(cfg.Paths.InputDir) != "Audio" {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if filepath.Base(cfg.Paths.SubtitleDir) != "Script" {
		t.Fatalf("unexpected subtitle dir: %q", cfg.Paths.SubtitleDir)
	}
	if filepath.Base(cfg.Paths.TextDir) != "Clean_Text" {
		t.Fatalf("unexpected text dir: %q", cfg.Paths.TextDir)
	}
	if cfg.Transcription.ChunkSizeSeconds != 720 {
		t.Fatalf("expected 720s chunks by default, got %v", cfg.Transcription.ChunkSizeSeconds)
	}
	if cfg.Transcription.TargetSampleRate != 16000 {
		t.Fatalf("expected 16 kHz by default, got %d", cfg.Transcription.TargetSampleRate)
	}
	if !cfg.Transcription.WriteText {
		t.Fatal("expected write_text enabled by default")
	}
	if cfg.Transcription.Workers != 1 {
		t.Fatalf("expected a single worker by default, got %d", cfg.Transcription.Workers)
	}
	if cfg.Engine.Kind != config.EngineHTTP {
		t.Fatalf("expected http engine by default, got %q", cfg.Engine.Kind)
	}
	if cfg.HistoryPath() != filepath.Join(tempHome, ".local", "share", "scribe", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.SubtitleDir, cfg.Paths.TextDir, cfg.Paths.LogDir, cfg.Paths.StateDir, cfg.Paths.WorkDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.InputDir); !os.IsNotExist(err) {
		t.Fatalf("expected input dir to be left alone, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "scribe.toml")

	type payload struct {
		Transcription struct {
			ChunkSizeSeconds float64  `toml:"chunk_size_seconds"`
			WriteText        bool     `toml:"write_text"`
			Extensions       []string `toml:"extensions"`
		} `toml:"transcription"`
		Engine struct {
			Kind    string   `toml:"kind"`
			Command string   `toml:"command"`
			Args    []string `toml:"args"`
		} `toml:"engine"`
	}
	custom := payload{}
	custom.Transcription.ChunkSizeSeconds = 30
	custom.Transcription.WriteText = false
	custom.Transcription.Extensions = []string{".WAV", "flac", "wav"}
	custom.Engine.Kind = "Command"
	custom.Engine.Command = "asr-helper"
	custom.Engine.Args = []string{"--json", "{input}"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Transcription.ChunkSizeSeconds != 30 {
		t.Fatalf("expected chunk size 30, got %v", cfg.Transcription.ChunkSizeSeconds)
	}
	if cfg.Transcription.WriteText {
		t.Fatal("expected write_text override to false")
	}
	if got := strings.Join(cfg.Transcription.Extensions, ","); got != "wav,flac" {
		t.Fatalf("expected normalized extensions wav,flac, got %q", got)
	}
	if cfg.Engine.Kind != config.EngineCommand {
		t.Fatalf("expected command engine, got %q", cfg.Engine.Kind)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scribe.toml")
	if err := os.WriteFile(configPath, []byte("[transcription]\nchunk_seconds = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEngineURLEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCRIBE_ENGINE_URL", "http://asr.internal:9000/")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.URL != "http://asr.internal:9000" {
		t.Fatalf("expected env URL with trailing slash trimmed, got %q", cfg.Engine.URL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero chunk size", func(c *config.Config) { c.Transcription.ChunkSizeSeconds = 0 }, "chunk_size_seconds"},
		{"negative chunk size", func(c *config.Config) { c.Transcription.ChunkSizeSeconds = -1 }, "chunk_size_seconds"},
		{"zero sample rate", func(c *config.Config) { c.Transcription.TargetSampleRate = 0 }, "target_sample_rate"},
		{"sub-sample chunk", func(c *config.Config) {
			c.Transcription.ChunkSizeSeconds = 0.00001
			c.Transcription.TargetSampleRate = 8000
		}, "shorter than one sample"},
		{"unknown engine", func(c *config.Config) { c.Engine.Kind = "grpc" }, "engine.kind"},
		{"bad url", func(c *config.Config) { c.Engine.URL = "localhost:8387" }, "engine.url"},
		{"command without binary", func(c *config.Config) { c.Engine.Kind = config.EngineCommand }, "engine.command"},
		{"command without placeholder", func(c *config.Config) {
			c.Engine.Kind = config.EngineCommand
			c.Engine.Command = "asr"
			c.Engine.Args = []string{"--json"}
		}, "{input}"},
		{"unknown decoder", func(c *config.Config) { c.Audio.Decoder = "sox" }, "audio.decoder"},
		{"no extensions", func(c *config.Config) { c.Transcription.Extensions = nil }, "extensions"},
		{"bare ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }, "ntfy_topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Transcription.ChunkSizeSeconds != 720 {
		t.Fatalf("unexpected sample chunk size %v", cfg.Transcription.ChunkSizeSeconds)
	}
}
