package ports

import (
	"context"

	"filetotext/internal/domain"
)

// KeyValue is durable client-side storage for string values. Reads tolerate
// missing keys; writes are full-value overwrites.
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string) error
}

// TranscriptionRequest carries one validated audio file to a provider.
type TranscriptionRequest struct {
	FilePath string
	FileName string
	APIKey   string
	Prompt   string
}

// Transcriber converts an audio file to text via an external service.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (domain.Transcript, error)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	ConversionProgress(percent int)
	ConversionResult(text string)
	SessionError(code domain.ErrorCode, detail string)
	Notice(message string)
}
