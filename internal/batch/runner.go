package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"scribe/internal/audio"
	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/services"
	"scribe/internal/transcript"
)

// ErrLocked is returned when another run holds the state directory lock.
var ErrLocked = errors.New("another scribe run is in progress")

const (
	stageDecode     = "decode"
	stageTranscribe = "transcribe"
	stageEmit       = "emit"
)

// Runner transcribes batches of recordings.
type Runner struct {
	cfg     *config.Config
	decoder audio.Decoder
	engine  transcript.Transcriber
	store   *history.Store
	notify  notifications.Service
	logger  *slog.Logger
	runID   string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithStore records runs and recordings in store.
func WithStore(store *history.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithNotifier replaces the notifier built from the config.
func WithNotifier(svc notifications.Service) Option {
	return func(r *Runner) { r.notify = svc }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if strings.TrimSpace(id) != "" {
			r.runID = id
		}
	}
}

// NewRunner constructs a runner. The engine must already be serialized when
// it cannot take overlapping calls from several workers.
func NewRunner(cfg *config.Config, decoder audio.Decoder, engine transcript.Transcriber, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		decoder: decoder,
		engine:  engine,
		logger:  logging.NewComponentLogger(logger, "batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	if r.notify == nil {
		r.notify = notifications.NewService(cfg)
	}
	return r
}

// RunID returns the identifier used for this runner's batch.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes inputs with the configured number of workers. Individual
// recording failures are reported in the summary, not as an error. The error
// is non-nil only when the batch could not start or ctx ended early.
func (r *Runner) Run(ctx context.Context, inputs []Input) (*Summary, error) {
	if r.cfg == nil || r.decoder == nil || r.engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "runner", "config, decoder, and engine are required", nil)
	}

	lock := flock.New(r.cfg.LockPath())
	if err := os.MkdirAll(filepath.Dir(r.cfg.LockPath()), 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "batch", "ensure state dir", filepath.Dir(r.cfg.LockPath()), err)
	}
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	ctx = services.WithRunID(ctx, r.runID)
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	if r.store != nil {
		if _, err := r.store.BeginRun(ctx, r.runID, r.cfg.Transcription.ChunkSizeSeconds, r.cfg.Transcription.TargetSampleRate); err != nil {
			logging.WarnWithContext(logger, "history unavailable; run will not be recorded", "history_begin_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "scribe history will not list this run"),
			)
		}
	}

	logger.Info("batch started",
		logging.Int("recordings", len(inputs)),
		logging.Int("workers", r.workers()),
		logging.Float64("chunk_size_seconds", r.cfg.Transcription.ChunkSizeSeconds),
	)
	r.notifyWarn(logger, "batch_started", r.notify.BatchStarted(ctx, len(inputs)))

	results := r.processAll(ctx, inputs)

	summary := &Summary{RunID: r.runID, Elapsed: time.Since(started)}
	for _, res := range results {
		if res != nil {
			summary.Results = append(summary.Results, *res)
		}
	}

	if r.store != nil {
		if _, err := r.store.FinishRun(context.WithoutCancel(ctx), r.runID); err != nil {
			logging.WarnWithContext(logger, "failed to finalize run history", "history_finish_failed", logging.Error(err))
		}
	}

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Count(history.StatusSucceeded)),
		logging.Int("failed", summary.Failures()),
		logging.Int("skipped", summary.Count(history.StatusSkipped)),
		logging.String("audio_duration", FormatAudioDuration(summary.AudioSeconds())),
		logging.Duration("elapsed", summary.Elapsed),
	)
	r.notifyWarn(logger, "batch_completed", r.notify.BatchCompleted(context.WithoutCancel(ctx), notifications.BatchResult{
		Succeeded:     summary.Count(history.StatusSucceeded),
		Failed:        summary.Failures(),
		Skipped:       summary.Count(history.StatusSkipped),
		AudioDuration: FormatAudioDuration(summary.AudioSeconds()),
		Elapsed:       summary.Elapsed,
	}))
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) workers() int {
	if n := r.cfg.Transcription.Workers; n > 1 {
		return n
	}
	return 1
}

// processAll fans inputs out to workers and returns results in input order.
// Inputs not started before ctx ends have nil results.
func (r *Runner) processAll(ctx context.Context, inputs []Input) []*Result {
	results := make([]*Result, len(inputs))
	owners := claimOutputNames(inputs)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(r.workers(), max(len(inputs), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := r.processRecording(ctx, inputs[i], owners[inputs[i].Name], i)
				r.record(ctx, res)
				results[i] = res
			}
		}()
	}

dispatch:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// claimOutputNames maps each output name to the index of the first input
// that uses it; later inputs with the same name would overwrite its files.
func claimOutputNames(inputs []Input) map[string]int {
	owners := make(map[string]int, len(inputs))
	for i, in := range inputs {
		if _, ok := owners[in.Name]; !ok {
			owners[in.Name] = i
		}
	}
	return owners
}

func (r *Runner) outputPaths(name string) (string, string) {
	subtitle := filepath.Join(r.cfg.Paths.SubtitleDir, name+".srt")
	var text string
	if r.cfg.Transcription.WriteText {
		text = filepath.Join(r.cfg.Paths.TextDir, name+".txt")
	}
	return subtitle, text
}

func (r *Runner) processRecording(ctx context.Context, in Input, owner, index int) *Result {
	ctx = services.WithRecording(ctx, in.Name)
	logger := logging.WithContext(ctx, r.logger)
	res := &Result{Input: in, StartedAt: time.Now()}
	defer func() { res.Elapsed = time.Since(res.StartedAt) }()

	subtitlePath, textPath := r.outputPaths(in.Name)

	if owner != index {
		res.Status = history.StatusInvalid
		res.Err = services.Wrap(services.ErrConfiguration, "batch", "output name",
			fmt.Sprintf("%q collides with an earlier input using the same name", in.Name), nil)
		logging.WarnWithContext(logger, "recording skipped: duplicate output name", "output_name_collision",
			logging.String("input", in.Path),
			logging.String(logging.FieldImpact, "recording was not transcribed"),
			logging.String(logging.FieldErrorHint, "rename the file so its name before the first dot is unique"),
		)
		return res
	}

	if r.cfg.Transcription.SkipExisting {
		if _, err := os.Stat(subtitlePath); err == nil {
			res.Status = history.StatusSkipped
			res.SubtitlePath = subtitlePath
			attrs := []any{
				logging.String(logging.FieldEventType, "recording_skipped"),
				logging.String("subtitle_path", subtitlePath),
			}
			if prev := r.previousSuccess(ctx, in.Path); prev != nil {
				res.carryOver(prev)
				attrs = append(attrs,
					logging.String("previous_run_id", prev.RunID),
					logging.String("transcribed", humanize.Time(prev.FinishedAt)),
				)
			}
			logger.Info("recording skipped: subtitle exists", attrs...)
			return res
		}
	}

	fail := func(stage string, err error) *Result {
		res.Status = services.FailureStatus(err)
		res.Err = err
		logging.ErrorWithContext(logger, "recording failed", "recording_failed",
			logging.String(logging.FieldStage, stage),
			logging.String("input", in.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "no subtitle or text written for this recording"),
		)
		r.notifyWarn(logger, "recording_failed", r.notify.RecordingFailed(context.WithoutCancel(ctx), in.Name, err))
		return res
	}

	logger.Info("recording started", logging.String("input", in.Path))

	buf, err := r.decoder.Decode(services.WithStage(ctx, stageDecode), in.Path, r.cfg.Transcription.TargetSampleRate)
	if err != nil {
		return fail(stageDecode, err)
	}
	res.AudioSeconds = buf.Seconds()
	if size, err := transcript.ChunkSamples(r.cfg.Transcription.ChunkSizeSeconds, r.cfg.Transcription.TargetSampleRate); err == nil {
		res.Chunks = len(transcript.PlanChunks(buf.Len(), size))
	}

	scheduler := transcript.NewScheduler(r.engine, r.logger)
	timeline, err := scheduler.Process(services.WithStage(ctx, stageTranscribe), buf, transcript.Options{
		ChunkSizeSeconds: r.cfg.Transcription.ChunkSizeSeconds,
		SampleRate:       r.cfg.Transcription.TargetSampleRate,
	})
	if err != nil {
		return fail(stageTranscribe, err)
	}
	if err := timeline.CheckOrder(); err != nil {
		logging.WarnWithContext(logger, "engine returned out-of-order timestamps", "timeline_out_of_order",
			logging.Error(err),
			logging.String(logging.FieldImpact, "subtitle cues may overlap or jump backwards"),
		)
	}

	opts := transcript.DefaultEmitOptions()
	opts.WriteText = r.cfg.Transcription.WriteText
	if err := transcript.Emit(timeline, subtitlePath, textPath, opts); err != nil {
		return fail(stageEmit, err)
	}

	res.Status = history.StatusSucceeded
	res.Segments = len(timeline.Segments)
	res.Words = len(timeline.Words)
	res.Chars = len(timeline.Chars)
	res.SubtitlePath = subtitlePath
	res.TextPath = textPath
	logger.Info("recording transcribed",
		logging.String(logging.FieldEventType, "recording_succeeded"),
		logging.String("audio_duration", FormatAudioDuration(res.AudioSeconds)),
		logging.Int("segments", res.Segments),
		logging.String("subtitle_path", subtitlePath),
		logging.String("text_path", textPath),
		logging.Duration("elapsed", time.Since(res.StartedAt)),
	)
	return res
}

func (r *Runner) notifyWarn(logger *slog.Logger, event string, err error) {
	if err == nil {
		return
	}
	logging.WarnWithContext(logger, "notification not delivered", "notification_failed",
		logging.String("notification", event),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
	)
}

// previousSuccess looks up the last successful transcription of path, or
// nil when there is no history for it.
func (r *Runner) previousSuccess(ctx context.Context, path string) *history.Recording {
	if r.store == nil {
		return nil
	}
	prev, err := r.store.LastSuccess(ctx, path)
	if err != nil {
		if !errors.Is(err, history.ErrNotFound) {
			logging.WarnWithContext(r.logger, "history lookup failed", "history_lookup_failed",
				logging.String("input", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "skipped recording is recorded without its earlier counts"),
			)
		}
		return nil
	}
	return prev
}

func (r *Runner) record(ctx context.Context, res *Result) {
	if r.store == nil || res == nil {
		return
	}
	rec := history.Recording{
		RunID:        r.runID,
		InputPath:    res.Input.Path,
		Name:         res.Input.Name,
		Status:       res.Status,
		AudioSeconds: res.AudioSeconds,
		Chunks:       res.Chunks,
		Segments:     res.Segments,
		Words:        res.Words,
		Chars:        res.Chars,
		SubtitlePath: res.SubtitlePath,
		TextPath:     res.TextPath,
		StartedAt:    res.StartedAt,
		FinishedAt:   time.Now(),
	}
	if res.Err != nil {
		rec.ErrorMessage = res.Err.Error()
	}
	if _, err := r.store.RecordRecording(context.WithoutCancel(ctx), rec); err != nil {
		logging.WarnWithContext(r.logger, "failed to record recording history", "history_record_failed",
			logging.String(logging.FieldRecording, res.Input.Name),
			logging.Error(err),
		)
	}
}
