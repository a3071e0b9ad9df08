package usecase

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"filetotext/internal/domain"
)

// The accepted superset of audio formats. Document types are accepted by the
// filter but routed to the unsupported branch at conversion time.
var acceptedAudioTypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/wave":   true,
	"audio/mp4":    true,
	"audio/m4a":    true,
	"audio/x-m4a":  true,
	"audio/ogg":    true,
	"audio/webm":   true,
	"audio/flac":   true,
	"audio/x-flac": true,
}

var acceptedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidationError is a user-facing file rejection. It never reaches the
// provider; the selection is simply refused with a message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func isAudioType(mimeType string) bool {
	return acceptedAudioTypes[normalizeMIME(mimeType)]
}

func isDocumentType(mimeType string) bool {
	return acceptedDocumentTypes[normalizeMIME(mimeType)]
}

func normalizeMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// validateFile checks the selection against the size limit and accepted type
// set, sniffing the file content when no usable type was declared. It returns
// the resolved MIME type on acceptance.
func validateFile(info domain.FileInfo, maxFileSize int64) (string, *ValidationError) {
	if info.Size > maxFileSize {
		return "", &ValidationError{
			Message: fmt.Sprintf("File is too large. Maximum size is %dMB.", maxFileSize>>20),
		}
	}

	resolved := normalizeMIME(info.MIMEType)
	if resolved == "" || resolved == "application/octet-stream" {
		detected, err := mimetype.DetectFile(info.Path)
		if err != nil {
			return "", &ValidationError{Message: "There was an error with your file. Please try again."}
		}
		resolved = normalizeMIME(detected.String())
	}

	if !isAudioType(resolved) && !isDocumentType(resolved) {
		return "", &ValidationError{
			Message: "Unsupported file type. Please upload an audio file (MP3, WAV, M4A, OGG, FLAC, WebM) or a PDF, DOC, or DOCX document.",
		}
	}

	return resolved, nil
}
