package asr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"scribe/internal/config"
	"scribe/internal/transcript"
)

// CommandRunner executes name with args and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CommandEngine runs an external program once per chunk. Every "{input}" in
// args is replaced by the chunk WAV path; stdout must carry the JSON result.
type CommandEngine struct {
	command string
	args    []string
	workDir string
	runner  CommandRunner
}

// NewCommandEngine constructs an engine for command with args.
func NewCommandEngine(command string, args []string, workDir string) *CommandEngine {
	cp := make([]string, len(args))
	copy(cp, args)
	return &CommandEngine{
		command: strings.TrimSpace(command),
		args:    cp,
		workDir: strings.TrimSpace(workDir),
		runner:  defaultCommandRunner,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *CommandEngine) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		e.runner = runner
	}
}

// Transcribe writes the chunk to work_dir and runs the configured command.
func (e *CommandEngine) Transcribe(ctx context.Context, samples []float32, sampleRate int) (*transcript.ChunkResult, error) {
	if e == nil || e.command == "" {
		return nil, fmt.Errorf("asr command: no command configured")
	}
	path, cleanup, err := writeChunkFile(e.workDir, samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("asr command: %w", err)
	}
	defer cleanup()

	args := make([]string, len(e.args))
	for i, arg := range e.args {
		args[i] = strings.ReplaceAll(arg, config.InputPlaceholder, path)
	}
	out, err := e.runner(ctx, e.command, args...)
	if err != nil {
		return nil, fmt.Errorf("asr command %s: %w", e.command, err)
	}
	return decodeResult(out)
}

// IsAvailable reports whether the command can be found.
func (e *CommandEngine) IsAvailable(context.Context) error {
	if e == nil || e.command == "" {
		return fmt.Errorf("asr command: no command configured")
	}
	if _, err := exec.LookPath(e.command); err != nil {
		return fmt.Errorf("asr command: %w", err)
	}
	return nil
}

// Describe returns a short human-readable engine description.
func (e *CommandEngine) Describe() string {
	return "command " + e.command
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, truncate(msg, maxErrorBody))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
