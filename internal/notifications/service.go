package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scribe/internal/config"
)

const userAgent = "scribe/0.1"

// Service is the notification surface used by the batch runner.
type Service interface {
	BatchStarted(ctx context.Context, recordings int) error
	RecordingFailed(ctx context.Context, recording string, err error) error
	BatchCompleted(ctx context.Context, result BatchResult) error
	Test(ctx context.Context) error
}

// BatchResult summarizes a finished batch.
type BatchResult struct {
	Succeeded     int
	Failed        int
	Skipped       int
	AudioDuration string
	Elapsed       time.Duration
}

// NewService returns an ntfy notifier, or a no-op one when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) BatchStarted(ctx context.Context, recordings int) error {
	noun := "recordings"
	if recordings == 1 {
		noun = "recording"
	}
	return n.send(ctx, message{
		title: "scribe - Batch Started",
		body:  fmt.Sprintf("Transcribing %d %s", recordings, noun),
		tags:  []string{"scribe", "batch", "started"},
	})
}

func (n *ntfyService) RecordingFailed(ctx context.Context, recording string, err error) error {
	detail := "unknown error"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	return n.send(ctx, message{
		title:    "scribe - Transcription Failed",
		body:     fmt.Sprintf("%s: %s", strings.TrimSpace(recording), detail),
		tags:     []string{"scribe", "error"},
		priority: "high",
	})
}

func (n *ntfyService) BatchCompleted(ctx context.Context, result BatchResult) error {
	elapsed := result.Elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	msg := message{
		title: "scribe - Batch Complete",
		body: fmt.Sprintf("%d transcribed, %d skipped in %s\nAudio: %s",
			result.Succeeded, result.Skipped, elapsed, result.AudioDuration),
		tags: []string{"scribe", "batch", "completed"},
	}
	if result.Failed > 0 {
		msg.title = "scribe - Batch Complete (with errors)"
		msg.body = fmt.Sprintf("%d transcribed, %d failed, %d skipped in %s\nAudio: %s",
			result.Succeeded, result.Failed, result.Skipped, elapsed, result.AudioDuration)
		msg.tags = append(msg.tags, "warning")
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) Test(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "scribe - Test",
		body:     "Notification test from scribe doctor",
		tags:     []string{"scribe", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) BatchStarted(context.Context, int) error              { return nil }
func (noopService) RecordingFailed(context.Context, string, error) error { return nil }
func (noopService) BatchCompleted(context.Context, BatchResult) error    { return nil }
func (noopService) Test(context.Context) error                           { return nil }
