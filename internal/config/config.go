package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and bookkeeping directories.
type Paths struct {
	InputDir    string `toml:"input_dir"`
	SubtitleDir string `toml:"subtitle_dir"`
	TextDir     string `toml:"text_dir"`
	LogDir      string `toml:"log_dir"`
	StateDir    string `toml:"state_dir"`
	WorkDir     string `toml:"work_dir"`
}

// Transcription contains chunking and artifact settings.
type Transcription struct {
	ChunkSizeSeconds float64  `toml:"chunk_size_seconds"`
	TargetSampleRate int      `toml:"target_sample_rate"`
	WriteText        bool     `toml:"write_text"`
	Workers          int      `toml:"workers"`
	SkipExisting     bool     `toml:"skip_existing"`
	Extensions       []string `toml:"extensions"`
}

// Engine selects and configures the external ASR engine.
type Engine struct {
	Kind           string   `toml:"kind"`
	URL            string   `toml:"url"`
	Model          string   `toml:"model"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	// ConcurrentSafe declares that the engine tolerates overlapping calls from
	// several recordings. When false, calls are serialized across workers.
	ConcurrentSafe bool `toml:"concurrent_safe"`
}

// Audio configures how recordings are decoded into sample buffers.
type Audio struct {
	Decoder      string `toml:"decoder"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Notifications configures push notifications about finished batches.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: input audio, subtitle/text output, logs, state, scratch space
//   - Transcription: chunk size, target sample rate, text output, workers
//   - Engine: ASR engine kind, endpoint or command, per-chunk timeout
//   - Audio: decoder selection and ffmpeg binary
//   - Notifications: optional ntfy topic for batch results
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Engine        Engine        `toml:"engine"`
	Audio         Audio         `toml:"audio"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and bookkeeping directories. The input
// directory is left alone: a missing input directory is reported by the batch
// runner rather than silently created empty.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.SubtitleDir, c.Paths.LogDir, c.Paths.StateDir, c.Paths.WorkDir}
	if c.Transcription.WriteText {
		dirs = append(dirs, c.Paths.TextDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for audio decoding.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Audio.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the location of the lock file guarding output directories.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "scribe.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
