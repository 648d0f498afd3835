package preflight

import (
	"context"

	"scribe/internal/asr"
	"scribe/internal/config"
)

// minWorkSpace covers a handful of staged chunk files at the default chunk
// size with room to spare.
const minWorkSpace = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Input directory", cfg.Paths.InputDir),
		CheckDirectoryAccess("Subtitle directory", cfg.Paths.SubtitleDir),
	}
	if cfg.Transcription.WriteText {
		results = append(results, CheckDirectoryAccess("Text directory", cfg.Paths.TextDir))
	}
	results = append(results,
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
	)
	if work := results[len(results)-1]; work.Passed {
		results = append(results, CheckFreeSpace("Work space", cfg.Paths.WorkDir, minWorkSpace))
	}

	if cfg.Audio.Decoder != config.DecoderWAV {
		results = append(results, CheckBinary("FFmpeg", cfg.FFmpegBinary()))
	}

	engine, err := asr.New(cfg)
	if err != nil {
		results = append(results, Result{Name: "ASR engine", Detail: err.Error()})
	} else {
		results = append(results, CheckEngine(ctx, engine))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
