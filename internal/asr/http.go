package asr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/transcript"
)

const (
	transcribePath = "/transcribe"
	healthPath     = "/health"
	maxErrorBody   = 512
)

// HTTPEngine uploads chunks to an ASR model server.
type HTTPEngine struct {
	baseURL string
	model   string
	workDir string
	http    *http.Client
}

// HTTPOption customizes an HTTPEngine.
type HTTPOption func(*HTTPEngine)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(e *HTTPEngine) {
		if client != nil {
			e.http = client
		}
	}
}

// WithWorkDir sets where chunk WAV files are staged before upload.
func WithWorkDir(dir string) HTTPOption {
	return func(e *HTTPEngine) {
		e.workDir = strings.TrimSpace(dir)
	}
}

// NewHTTPEngine constructs an engine for the server at baseURL. Requests are
// bounded only by their context.
func NewHTTPEngine(baseURL, model string, opts ...HTTPOption) *HTTPEngine {
	engine := &HTTPEngine{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:   strings.TrimSpace(model),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Transcribe posts samples as a WAV upload with all timestamp granularities
// requested.
func (e *HTTPEngine) Transcribe(ctx context.Context, samples []float32, sampleRate int) (*transcript.ChunkResult, error) {
	if e == nil || e.baseURL == "" {
		return nil, fmt.Errorf("asr http: no engine url configured")
	}
	path, cleanup, err := writeChunkFile(e.workDir, samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("asr http: %w", err)
	}
	defer cleanup()

	body, contentType, err := e.buildForm(path)
	if err != nil {
		return nil, fmt.Errorf("asr http: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+transcribePath, body)
	if err != nil {
		return nil, fmt.Errorf("asr http: build request: %w", err)
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", "application/json")

	resp, err := e.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("asr http: request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("asr http: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asr http: unexpected status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(payload)), maxErrorBody))
	}
	return decodeResult(payload)
}

func (e *HTTPEngine) buildForm(path string) (*bytes.Buffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open chunk: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if e.model != "" {
		if err := writer.WriteField("model", e.model); err != nil {
			return nil, "", fmt.Errorf("write model field: %w", err)
		}
	}
	if err := writer.WriteField("timestamps", "true"); err != nil {
		return nil, "", fmt.Errorf("write timestamps field: %w", err)
	}
	field, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create file field: %w", err)
	}
	if _, err := io.Copy(field, file); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// IsAvailable checks the server's health endpoint.
func (e *HTTPEngine) IsAvailable(ctx context.Context) error {
	if e == nil || e.baseURL == "" {
		return fmt.Errorf("asr http: no engine url configured")
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("asr http: build health request: %w", err)
	}
	resp, err := e.http.Do(request)
	if err != nil {
		return fmt.Errorf("asr http: health check: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("asr http: health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Describe returns a short human-readable engine description.
func (e *HTTPEngine) Describe() string {
	if e.model == "" {
		return "http " + e.baseURL
	}
	return fmt.Sprintf("http %s (%s)", e.baseURL, e.model)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
