package domain

// SessionState models the lifecycle of a single file conversion.
type SessionState string

const (
	SessionStateIdle         SessionState = "idle"
	SessionStateValidating   SessionState = "validating"
	SessionStateTranscribing SessionState = "transcribing"
	SessionStateSucceeded    SessionState = "succeeded"
	SessionStateFailed       SessionState = "failed"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady               SessionStateReason = "ready"
	SessionReasonFileSelected        SessionStateReason = "file_selected"
	SessionReasonFileCleared         SessionStateReason = "file_cleared"
	SessionReasonValidationFailed    SessionStateReason = "validation_failed"
	SessionReasonConverting          SessionStateReason = "converting"
	SessionReasonConversionCompleted SessionStateReason = "conversion_completed"
	SessionReasonConversionFailed    SessionStateReason = "conversion_failed"
	SessionReasonDocumentUnsupported SessionStateReason = "document_unsupported"
	SessionReasonResultCleared       SessionStateReason = "result_cleared"
)

// ErrorCode identifies non-fatal backend errors surfaced to the UI.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeValidation    ErrorCode = "validation"
	ErrorCodeAPIKey        ErrorCode = "api_key"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodeStorage       ErrorCode = "storage"
	ErrorCodeClipboard     ErrorCode = "clipboard"
	ErrorCodeExport        ErrorCode = "export"
)

// FileInfo describes a file the user selected for conversion.
type FileInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// ConversionRecord is one completed conversion persisted in history.
type ConversionRecord struct {
	ID            string `json:"id"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
	FileSize      int64  `json:"fileSize"`
	ConvertedText string `json:"convertedText"`
	Timestamp     string `json:"timestamp"`
}

// Status summarizes the controller state for the UI.
type Status struct {
	State     SessionState `json:"state"`
	Active    bool         `json:"active"`
	Progress  int          `json:"progress"`
	File      *FileInfo    `json:"file,omitempty"`
	FileError string       `json:"fileError,omitempty"`
	Result    string       `json:"result,omitempty"`
	Message   string       `json:"message,omitempty"`
}
