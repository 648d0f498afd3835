package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested run or recording does not exist.
var ErrNotFound = errors.New("not found")

// BeginRun inserts a run row in the running state.
func (s *Store) BeginRun(ctx context.Context, id string, chunkSizeSeconds float64, sampleRate int) (*Run, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("begin run: id required")
	}
	now := time.Now().UTC()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, started_at, status, chunk_size_seconds, sample_rate)
         VALUES (?, ?, ?, ?, ?)`,
		id, now.Format(timeLayout), StatusRunning, chunkSizeSeconds, sampleRate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{
		ID:               id,
		StartedAt:        now,
		Status:           StatusRunning,
		ChunkSizeSeconds: chunkSizeSeconds,
		SampleRate:       sampleRate,
	}, nil
}

// RecordRecording stores the outcome of one recording and returns its row id.
func (s *Store) RecordRecording(ctx context.Context, rec Recording) (int64, error) {
	if strings.TrimSpace(rec.RunID) == "" {
		return 0, errors.New("record recording: run id required")
	}
	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO recordings (
            run_id, input_path, name, status, audio_seconds, chunks,
            segments, words, chars, subtitle_path, text_path, error_message,
            started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.InputPath,
		rec.Name,
		rec.Status,
		rec.AudioSeconds,
		rec.Chunks,
		rec.Segments,
		rec.Words,
		rec.Chars,
		nullableString(rec.SubtitlePath),
		nullableString(rec.TextPath),
		nullableString(rec.ErrorMessage),
		started.UTC().Format(timeLayout),
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert recording: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishRun aggregates the run's recordings and marks it finished. The run is
// succeeded when no recording failed, partial when some did, and failed when
// all of them did.
func (s *Store) FinishRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	var (
		total    int
		failures int
		seconds  sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0),
                SUM(CASE WHEN status = ? THEN audio_seconds ELSE 0 END)
         FROM recordings WHERE run_id = ?`,
		StatusFailed, StatusInvalid, StatusSucceeded, id,
	).Scan(&total, &failures, &seconds)
	if err != nil {
		return nil, fmt.Errorf("aggregate run %s: %w", id, err)
	}

	status := StatusSucceeded
	switch {
	case total > 0 && failures == total:
		status = StatusFailed
	case failures > 0:
		status = StatusPartial
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, recordings = ?, failures = ?, audio_seconds = ?
         WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), status, total, failures, seconds.Float64, id,
	)
	if err != nil {
		return nil, fmt.Errorf("finish run %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, fmt.Errorf("finish run %s: %w", id, ErrNotFound)
	}
	return s.GetRun(ctx, id)
}

// GetRun fetches a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// RecentRuns lists the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// RecordingsForRun lists a run's recordings in the order they were recorded.
func (s *Store) RecordingsForRun(ctx context.Context, runID string) ([]Recording, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordingColumns+` FROM recordings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recs []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// LastSuccess returns the most recent successful recording for inputPath.
func (s *Store) LastSuccess(ctx context.Context, inputPath string) (*Recording, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordingColumns+` FROM recordings
         WHERE input_path = ? AND status = ?
         ORDER BY finished_at DESC LIMIT 1`,
		inputPath, StatusSucceeded)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recording %s: %w", inputPath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("last success %s: %w", inputPath, err)
	}
	return rec, nil
}

const runColumns = `id, started_at, finished_at, status, recordings, failures,
    audio_seconds, chunk_size_seconds, sample_rate`

const recordingColumns = `id, run_id, input_path, name, status, audio_seconds,
    chunks, segments, words, chars, subtitle_path, text_path, error_message,
    started_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
		status   string
	)
	if err := row.Scan(
		&run.ID, &started, &finished, &status, &run.Recordings, &run.Failures,
		&run.AudioSeconds, &run.ChunkSizeSeconds, &run.SampleRate,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return &run, nil
}

func scanRecording(row rowScanner) (*Recording, error) {
	var (
		rec      Recording
		status   string
		subtitle sql.NullString
		text     sql.NullString
		errMsg   sql.NullString
		started  string
		finished string
	)
	if err := row.Scan(
		&rec.ID, &rec.RunID, &rec.InputPath, &rec.Name, &status, &rec.AudioSeconds,
		&rec.Chunks, &rec.Segments, &rec.Words, &rec.Chars, &subtitle, &text, &errMsg,
		&started, &finished,
	); err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	rec.SubtitlePath = subtitle.String
	rec.TextPath = text.String
	rec.ErrorMessage = errMsg.String
	rec.StartedAt = parseTime(started)
	rec.FinishedAt = parseTime(finished)
	return &rec, nil
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// timeLayout keeps fractional seconds fixed-width so stored timestamps sort
// lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
