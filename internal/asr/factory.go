package asr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scribe/internal/config"
)

// New builds the configured engine, wrapped with the per-call timeout and,
// when several workers share an engine not marked concurrent_safe, call
// serialization.
func New(cfg *config.Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.New("asr: config required")
	}
	var engine Engine
	switch strings.ToLower(strings.TrimSpace(cfg.Engine.Kind)) {
	case config.EngineHTTP:
		engine = NewHTTPEngine(cfg.Engine.URL, cfg.Engine.Model, WithWorkDir(cfg.Paths.WorkDir))
	case config.EngineCommand:
		engine = NewCommandEngine(cfg.Engine.Command, cfg.Engine.Args, cfg.Paths.WorkDir)
	default:
		return nil, fmt.Errorf("asr: unsupported engine kind %q", cfg.Engine.Kind)
	}

	if cfg.Engine.TimeoutSeconds > 0 {
		engine = WithTimeout(engine, time.Duration(cfg.Engine.TimeoutSeconds)*time.Second)
	}
	if cfg.Transcription.Workers > 1 && !cfg.Engine.ConcurrentSafe {
		engine = Serialized(engine)
	}
	return engine, nil
}
