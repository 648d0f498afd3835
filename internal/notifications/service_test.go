package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/notifications"
)

type captured struct {
	title, body, tags, priority string
}

func newTopic(t *testing.T, status int) (*httptest.Server, func() []captured) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, captured{
			title:    r.Header.Get("Title"),
			body:     string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		mu.Unlock()
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte("topic unavailable"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), seen...)
	}
}

func TestNewServiceReturnsNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.BatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).Test(context.Background()); err != nil {
		t.Fatalf("expected nil config to give a noop notifier, got %v", err)
	}
}

func TestNtfyMessages(t *testing.T) {
	srv, seen := newTopic(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.BatchStarted(ctx, 1); err != nil {
		t.Fatalf("BatchStarted: %v", err)
	}
	if err := svc.RecordingFailed(ctx, "lecture", errors.New("engine down")); err != nil {
		t.Fatalf("RecordingFailed: %v", err)
	}
	if err := svc.BatchCompleted(ctx, notifications.BatchResult{
		Succeeded: 2, Failed: 1, AudioDuration: "01 hours 00 minutes 0.00 seconds", Elapsed: 90 * time.Second,
	}); err != nil {
		t.Fatalf("BatchCompleted: %v", err)
	}

	got := seen()
	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(got))
	}
	if got[0].body != "Transcribing 1 recording" || got[0].tags != "scribe,batch,started" {
		t.Fatalf("unexpected start message %+v", got[0])
	}
	if got[1].body != "lecture: engine down" || got[1].priority != "high" {
		t.Fatalf("unexpected failure message %+v", got[1])
	}
	if got[2].title != "scribe - Batch Complete (with errors)" || !strings.Contains(got[2].body, "2 transcribed, 1 failed, 0 skipped in 1m30s") {
		t.Fatalf("unexpected completion message %+v", got[2])
	}
}

func TestNtfyErrorStatus(t *testing.T) {
	srv, _ := newTopic(t, http.StatusBadGateway)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = srv.URL
	err := notifications.NewService(&cfg).Test(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "topic unavailable") {
		t.Fatalf("expected status error, got %v", err)
	}
}
