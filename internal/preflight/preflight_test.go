package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/asr"
	"scribe/internal/config"
	"scribe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBinary(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinaries("fake-ffmpeg"))
	if result := CheckBinary("FFmpeg", "fake-ffmpeg"); !result.Passed {
		t.Fatalf("expected stubbed binary to resolve: %s", result.Detail)
	}
	if result := CheckBinary("FFmpeg", "definitely-not-installed-binary"); result.Passed {
		t.Fatal("expected missing binary to fail")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected at least one free byte: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed {
		t.Fatal("expected absurd requirement to fail")
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected statfs failure on missing path")
	}
}

func TestCheckEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if result := CheckEngine(context.Background(), asr.NewHTTPEngine(srv.URL, "m")); !result.Passed {
		t.Fatalf("expected healthy engine, got %s", result.Detail)
	}
	if result := CheckEngine(context.Background(), asr.NewHTTPEngine(srv.URL+"/nested", "m")); result.Passed {
		t.Fatal("expected 404 health endpoint to fail")
	}
	if result := CheckEngine(context.Background(), nil); result.Passed {
		t.Fatal("expected nil engine to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_HealthyConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Engine.URL = srv.URL
	cfg.Audio.Decoder = config.DecoderWAV

	results := RunAll(context.Background(), cfg)
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	for _, want := range []string{"Input directory", "Text directory", "Work space", "ASR engine"} {
		found := false
		for _, name := range names {
			found = found || name == want
		}
		if !found {
			t.Fatalf("expected %q check in %v", want, names)
		}
	}
	for _, name := range names {
		if name == "FFmpeg" {
			t.Fatal("ffmpeg should not be required for the wav decoder")
		}
	}
}

func TestRunAll_ReportsUnreachableEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Engine.URL = srv.URL
	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "ASR engine" {
		t.Fatalf("expected only the engine check to fail, got %+v", failed)
	}
}
