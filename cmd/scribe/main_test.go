package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/testsupport"
)

const segmentResponse = `{"timestamp":{"segment":[{"segment":"hello there","start":0.1,"end":0.5}],"word":[{"word":"hello","start":0.1,"end":0.3}],"char":[]}}`

type cliEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCRIBE_ENGINE_URL", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/transcribe":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(segmentResponse))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithChunkSize(1, 8000))
	cfg.Engine.URL = srv.URL
	cfg.Audio.Decoder = config.DecoderWAV
	cfg.Logging.Level = "info"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "scribe.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliEnv{cfg: cfg, configPath: path}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func TestTranscribeWritesArtifactsAndHistory(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Paths.InputDir, "talk.part1.wav"), 2.5, 8000)

	out, _, err := runCLI(t, env.configPath, "transcribe")
	if err != nil {
		t.Fatalf("transcribe: %v\n%s", err, out)
	}
	requireContains(t, out, "Total audio duration: 00 hours 00 minutes 2.50 seconds")
	requireContains(t, out, "succeeded")

	srt, err := os.ReadFile(filepath.Join(env.cfg.Paths.SubtitleDir, "talk.srt"))
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	want := "1\n00:00:00,100 --> 00:00:00,500\nhello there\n\n" +
		"2\n00:00:01,100 --> 00:00:01,500\nhello there\n\n" +
		"3\n00:00:02,100 --> 00:00:02,500\nhello there\n\n"
	if string(srt) != want {
		t.Fatalf("unexpected srt:\n%q\nwant:\n%q", srt, want)
	}
	text, err := os.ReadFile(filepath.Join(env.cfg.Paths.TextDir, "talk.txt"))
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if string(text) != "hello there\nhello there\nhello there\n" {
		t.Fatalf("unexpected text %q", text)
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")

	out, _, err = runCLI(t, env.configPath, "logs", "-n", "200")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "batch finished")

	out, _, err = runCLI(t, env.configPath, "check", filepath.Join(env.cfg.Paths.SubtitleDir, "talk.srt"))
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "3 cues")
}

func TestTranscribeNoInputs(t *testing.T) {
	env := setupCLI(t)
	out, _, err := runCLI(t, env.configPath, "transcribe")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	requireContains(t, out, "No recordings found")
}

func TestTranscribeReportsFailedRecording(t *testing.T) {
	env := setupCLI(t)
	bogus := filepath.Join(env.cfg.Paths.InputDir, "broken.wav")
	testsupport.WriteFile(t, bogus, 16)

	out, _, err := runCLI(t, env.configPath, "transcribe", bogus)
	if err == nil {
		t.Fatal("expected failing recording to produce an error")
	}
	requireContains(t, err.Error(), "1 of 1 recordings failed")
	requireContains(t, out, "failed")
	if _, statErr := os.Stat(filepath.Join(env.cfg.Paths.SubtitleDir, "broken.srt")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no subtitle for failed recording, stat err %v", statErr)
	}
}

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLI(t)
	out, _, err := runCLI(t, env.configPath, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "ASR engine:")
	requireContains(t, out, "[OK]")
}

func TestCheckFlagsBrokenSubtitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.srt")
	content := "1\n00:00:05,000 --> 00:00:01,000\nbackwards\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "check", path)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "problems")
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLI(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, env.configPath, "--log-level", "DEBUG", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "chunk_size_seconds = 1")
	requireContains(t, out, "debug")
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("FFmpeg", statusOK, "/usr/bin/ffmpeg", false)
	if plain != "  FFmpeg:              [OK] /usr/bin/ffmpeg" {
		t.Fatalf("unexpected status line %q", plain)
	}
	colored := renderStatusLine("FFmpeg", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colour codes, got %q", colored)
	}
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
