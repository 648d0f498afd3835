package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeEngine()
	c.normalizeAudio()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.input_dir", &c.Paths.InputDir, defaultInputDir},
		{"paths.subtitle_dir", &c.Paths.SubtitleDir, defaultSubtitleDir},
		{"paths.text_dir", &c.Paths.TextDir, defaultTextDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	if c.Transcription.Workers <= 0 {
		c.Transcription.Workers = defaultWorkers
	}
	seen := make(map[string]struct{}, len(c.Transcription.Extensions))
	exts := make([]string, 0, len(c.Transcription.Extensions))
	for _, ext := range c.Transcription.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Transcription.Extensions = exts
}

func (c *Config) normalizeEngine() {
	c.Engine.Kind = strings.ToLower(strings.TrimSpace(c.Engine.Kind))
	if c.Engine.Kind == "" {
		c.Engine.Kind = defaultEngineKind
	}
	if value, ok := os.LookupEnv(engineURLEnv); ok && strings.TrimSpace(value) != "" {
		c.Engine.URL = value
	}
	c.Engine.URL = strings.TrimRight(strings.TrimSpace(c.Engine.URL), "/")
	if c.Engine.URL == "" {
		c.Engine.URL = defaultEngineURL
	}
	c.Engine.Model = strings.TrimSpace(c.Engine.Model)
	c.Engine.Command = strings.TrimSpace(c.Engine.Command)
	if c.Engine.TimeoutSeconds < 0 {
		c.Engine.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Decoder = strings.ToLower(strings.TrimSpace(c.Audio.Decoder))
	if c.Audio.Decoder == "" {
		c.Audio.Decoder = defaultDecoder
	}
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
