package history

import "time"

// Status represents the outcome of a run or a single recording.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusInvalid   Status = "invalid"
	// StatusPartial marks a finished run in which some recordings failed.
	StatusPartial Status = "partial"
)

// Run describes one batch invocation.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	Status           Status
	Recordings       int
	Failures         int
	AudioSeconds     float64
	ChunkSizeSeconds float64
	SampleRate       int
}

// Elapsed returns the wall time the run took, or zero while still running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Recording captures the outcome of transcribing one input.
type Recording struct {
	ID           int64
	RunID        string
	InputPath    string
	Name         string
	Status       Status
	AudioSeconds float64
	Chunks       int
	Segments     int
	Words        int
	Chars        int
	SubtitlePath string
	TextPath     string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}
