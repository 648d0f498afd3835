package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if topic := c.Notifications.NtfyTopic; topic != "" &&
		!strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic %q must be a full http:// or https:// URL", topic)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	if math.IsNaN(t.ChunkSizeSeconds) || math.IsInf(t.ChunkSizeSeconds, 0) || t.ChunkSizeSeconds <= 0 {
		return errors.New("transcription.chunk_size_seconds must be positive")
	}
	if t.TargetSampleRate <= 0 {
		return errors.New("transcription.target_sample_rate must be positive")
	}
	if math.Floor(t.ChunkSizeSeconds*float64(t.TargetSampleRate)) < 1 {
		return fmt.Errorf("transcription.chunk_size_seconds %.6g is shorter than one sample at %d Hz", t.ChunkSizeSeconds, t.TargetSampleRate)
	}
	if len(t.Extensions) == 0 {
		return errors.New("transcription.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateEngine() error {
	switch c.Engine.Kind {
	case EngineHTTP:
		if !strings.HasPrefix(c.Engine.URL, "http://") && !strings.HasPrefix(c.Engine.URL, "https://") {
			return fmt.Errorf("engine.url %q must start with http:// or https://", c.Engine.URL)
		}
	case EngineCommand:
		if c.Engine.Command == "" {
			return errors.New("engine.command must be set when engine.kind is \"command\"")
		}
		if !slices.ContainsFunc(c.Engine.Args, func(arg string) bool {
			return strings.Contains(arg, InputPlaceholder)
		}) {
			return fmt.Errorf("engine.args must reference the chunk audio with %s", InputPlaceholder)
		}
	default:
		return fmt.Errorf("engine.kind: unsupported value %q (want %q or %q)", c.Engine.Kind, EngineHTTP, EngineCommand)
	}
	return nil
}

func (c *Config) validateAudio() error {
	switch c.Audio.Decoder {
	case DecoderAuto, DecoderFFmpeg, DecoderWAV:
		return nil
	default:
		return fmt.Errorf("audio.decoder: unsupported value %q", c.Audio.Decoder)
	}
}
