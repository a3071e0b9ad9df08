package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"filetotext/internal/ports"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("fake audio payload"), 0o600); err != nil {
		t.Fatalf("write test audio: %v", err)
	}
	return path
}

func TestNewProviderDefaults(t *testing.T) {
	t.Parallel()

	p := NewProvider(Config{})
	if p.cfg.APIBaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected base url: %q", p.cfg.APIBaseURL)
	}
	if p.cfg.Model != "whisper-1" {
		t.Fatalf("unexpected model: %q", p.cfg.Model)
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := NewProvider(Config{APIBaseURL: srv.URL + "/v1"})
	_, err := p.Transcribe(context.Background(), ports.TranscriptionRequest{FilePath: writeTestAudio(t)})
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("missing key must not produce a request")
	}
}

func TestTranscribeSegmentedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected authorization header: %q", auth)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if format := r.FormValue("response_format"); format != "verbose_json" {
			t.Errorf("expected verbose_json response format, got %q", format)
		}
		if prompt := r.FormValue("prompt"); prompt != "meeting notes" {
			t.Errorf("unexpected prompt: %q", prompt)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"task": "transcribe",
			"text": "hello world",
			"segments": [
				{"id": 0, "start": 0, "end": 2.5, "text": " hello"},
				{"id": 1, "start": 65.0, "end": 66.9, "text": " world"}
			]
		}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIBaseURL: srv.URL + "/v1", Prompt: "meeting notes"})
	transcript, err := p.Transcribe(context.Background(), ports.TranscriptionRequest{
		FilePath: writeTestAudio(t),
		FileName: "clip.mp3",
		APIKey:   "sk-test",
	})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}

	if !transcript.Segmented() {
		t.Fatalf("expected segmented transcript")
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(transcript.Segments))
	}
	if transcript.Segments[0].Start != 0 || transcript.Segments[0].Text != "hello" {
		t.Fatalf("unexpected first segment: %+v", transcript.Segments[0])
	}
	if transcript.Segments[1].Start != 65*time.Second || transcript.Segments[1].Text != "world" {
		t.Fatalf("unexpected second segment: %+v", transcript.Segments[1])
	}
	if transcript.Normalize() != "[00:00:00] hello\n[00:01:05] world" {
		t.Fatalf("unexpected normalized output: %q", transcript.Normalize())
	}
}

func TestTranscribeFlatResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task": "transcribe", "text": "just plain text"}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIBaseURL: srv.URL + "/v1"})
	transcript, err := p.Transcribe(context.Background(), ports.TranscriptionRequest{
		FilePath: writeTestAudio(t),
		APIKey:   "sk-test",
	})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}

	if transcript.Segmented() {
		t.Fatalf("expected flat transcript")
	}
	if transcript.Normalize() != "just plain text" {
		t.Fatalf("unexpected text: %q", transcript.Normalize())
	}
}

func TestTranscribeFoldsFailuresIntoOneError(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"auth rejected": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed response": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{not json`))
		},
	}

	for name, handler := range cases {
		handler := handler
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(handler)
			defer srv.Close()

			p := NewProvider(Config{APIBaseURL: srv.URL + "/v1"})
			_, err := p.Transcribe(context.Background(), ports.TranscriptionRequest{
				FilePath: writeTestAudio(t),
				APIKey:   "sk-test",
			})
			if !errors.Is(err, ErrConversionFailed) {
				t.Fatalf("expected ErrConversionFailed, got %v", err)
			}
		})
	}
}
