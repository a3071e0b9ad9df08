package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"filetotext/internal/bootstrap"
	"filetotext/internal/config"
	"filetotext/internal/domain"
	"filetotext/internal/history"
	"filetotext/internal/keystore"
	"filetotext/internal/ports"
	"filetotext/internal/usecase"
)

const (
	eventSession  = "filetotext:session"
	eventProgress = "filetotext:progress"
	eventResult   = "filetotext:result"
	eventError    = "filetotext:error"
	eventNotice   = "filetotext:notice"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	controller *usecase.Controller
	keys       *keystore.Store
	history    *history.Store
	clipboard  ports.Clipboard
	cfg        config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{clipboard: &wailsClipboard{}}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.controller = services.Controller
	a.keys = services.Keys
	a.history = services.History
	a.cfg = services.Config
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

// SelectFile opens a file picker and validates the chosen file.
func (a *App) SelectFile() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}

	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select a file to convert",
		Filters: []runtime.FileFilter{
			{DisplayName: "Audio files", Pattern: "*.mp3;*.wav;*.m4a;*.mp4;*.ogg;*.webm;*.flac"},
			{DisplayName: "Documents", Pattern: "*.pdf;*.doc;*.docx"},
		},
	})
	if err != nil {
		return a.controller.Status(), fmt.Errorf("open file dialog: %w", err)
	}
	if path == "" {
		return a.controller.Status(), nil
	}

	stat, err := os.Stat(path)
	if err != nil {
		a.SessionError(domain.ErrorCodeValidation, "There was an error with your file. Please try again.")
		return a.controller.Status(), fmt.Errorf("stat selected file: %w", err)
	}

	err = a.controller.SelectFile(domain.FileInfo{
		Name: filepath.Base(path),
		Path: path,
		Size: stat.Size(),
	})
	return a.controller.Status(), err
}

// ClearFile drops the current selection.
func (a *App) ClearFile() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	err := a.controller.ClearFile()
	return a.controller.Status(), err
}

// Convert starts transcribing the selected file.
func (a *App) Convert() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	err := a.controller.Start(a.ctx)
	return a.controller.Status(), err
}

// ClearResult discards the displayed transcript.
func (a *App) ClearResult() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	err := a.controller.ClearResult()
	return a.controller.Status(), err
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.SessionStateFailed, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.SessionStateIdle}
	}
	return a.controller.Status()
}

// GetAPIKey returns the stored API key for the settings form.
func (a *App) GetAPIKey() string {
	if a.keys == nil {
		return ""
	}
	return a.keys.Get()
}

// SetAPIKey validates and persists a new API key.
func (a *App) SetAPIKey(key string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if !keystore.Validate(strings.TrimSpace(key)) {
		return fmt.Errorf("invalid API key format: it should start with %q and be at least 30 characters long", "sk-")
	}
	if err := a.keys.Set(key); err != nil {
		a.SessionError(domain.ErrorCodeStorage, err.Error())
		return err
	}
	a.Notice("API key saved successfully!")
	return nil
}

// HasValidAPIKey reports whether the stored key passes validation.
func (a *App) HasValidAPIKey() bool {
	return a.keys != nil && a.keys.IsValid()
}

// ValidateAPIKey checks a candidate key without storing it.
func (a *App) ValidateAPIKey(candidate string) bool {
	return keystore.Validate(strings.TrimSpace(candidate))
}

// GetHistory returns past conversions, newest first.
func (a *App) GetHistory() []domain.ConversionRecord {
	if a.history == nil {
		return nil
	}
	return a.history.List()
}

// ClearHistory empties the conversion history.
func (a *App) ClearHistory() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.history.Clear()
}

// CopyText places transcript text on the system clipboard.
func (a *App) CopyText(text string) error {
	if text == "" {
		return nil
	}
	if err := a.clipboard.SetText(a.ctx, text); err != nil {
		a.SessionError(domain.ErrorCodeClipboard, "Failed to copy text to clipboard.")
		return err
	}
	a.Notice("Text copied to clipboard!")
	return nil
}

// SaveTranscript writes transcript text to a user-chosen .txt file. The
// suggested name derives from the source file name.
func (a *App) SaveTranscript(fileName string, text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	target, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save transcript",
		DefaultFilename: exportFileName(fileName, time.Now()),
		Filters: []runtime.FileFilter{
			{DisplayName: "Text files", Pattern: "*.txt"},
		},
	})
	if err != nil {
		return fmt.Errorf("save file dialog: %w", err)
	}
	if target == "" {
		return nil
	}

	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		a.SessionError(domain.ErrorCodeExport, "Failed to save the text file.")
		return fmt.Errorf("write transcript: %w", err)
	}
	a.Notice("Text file downloaded!")
	return nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"provider":    "OpenAI",
		"model":       a.cfg.OpenAI.Model,
		"maxFileSize": fmt.Sprintf("%dMB", a.cfg.Upload.MaxFileSize>>20),
		"storageDir":  a.cfg.Storage.Dir,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// ConversionProgress emits progress percentage updates.
func (a *App) ConversionProgress(percent int) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventProgress, map[string]int{"percent": percent})
}

// ConversionResult emits the final transcript text.
func (a *App) ConversionResult(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventResult, map[string]string{"text": text})
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

// Notice emits short user-facing confirmations (toast analog).
func (a *App) Notice(message string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventNotice, map[string]string{"message": message})
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready"
	case domain.SessionReasonFileSelected:
		return "File selected"
	case domain.SessionReasonFileCleared:
		return "File removed"
	case domain.SessionReasonValidationFailed:
		return "File was rejected"
	case domain.SessionReasonConverting:
		return "Converting..."
	case domain.SessionReasonConversionCompleted:
		return "Conversion completed!"
	case domain.SessionReasonConversionFailed:
		return "Conversion failed"
	case domain.SessionReasonDocumentUnsupported:
		return "Document processing is coming soon!"
	case domain.SessionReasonResultCleared:
		return "Result cleared"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeValidation:
		return detail
	case domain.ErrorCodeAPIKey:
		return "Please add a valid OpenAI API key in settings first!"
	case domain.ErrorCodeTranscription:
		return "Failed to convert file. Please check your API key and try again."
	case domain.ErrorCodeStorage:
		return "Storage issue"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	case domain.ErrorCodeExport:
		return "Export failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

func exportFileName(sourceName string, now time.Time) string {
	if sourceName == "" {
		return "converted-text-" + now.Format("2006-01-02") + ".txt"
	}
	base := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	if base == "" {
		base = sourceName
	}
	return base + ".txt"
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
