package batch

import (
	"fmt"
	"math"
	"time"

	"scribe/internal/history"
)

// Result is the outcome of one recording.
type Result struct {
	Input        Input
	Status       history.Status
	AudioSeconds float64
	Chunks       int
	Segments     int
	Words        int
	Chars        int
	SubtitlePath string
	TextPath     string
	Err          error
	StartedAt    time.Time
	Elapsed      time.Duration
}

// carryOver copies the counts and text path of an earlier successful
// transcription onto a skipped result.
func (r *Result) carryOver(prev *history.Recording) {
	r.AudioSeconds = prev.AudioSeconds
	r.Chunks = prev.Chunks
	r.Segments = prev.Segments
	r.Words = prev.Words
	r.Chars = prev.Chars
	if r.TextPath == "" {
		r.TextPath = prev.TextPath
	}
}

// Summary reports a finished batch.
type Summary struct {
	RunID   string
	Results []Result
	Elapsed time.Duration
}

// AudioSeconds totals the audio of recordings that were transcribed.
func (s *Summary) AudioSeconds() float64 {
	var total float64
	for _, r := range s.Results {
		if r.Status == history.StatusSucceeded {
			total += r.AudioSeconds
		}
	}
	return total
}

// Count returns how many results have status.
func (s *Summary) Count(status history.Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failures counts failed and invalid recordings.
func (s *Summary) Failures() int {
	return s.Count(history.StatusFailed) + s.Count(history.StatusInvalid)
}

// FormatAudioDuration renders seconds as "HH hours MM minutes S.SS seconds".
func FormatAudioDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	return fmt.Sprintf("%02d hours %02d minutes %.2f seconds", hours, minutes, math.Mod(seconds, 60))
}
