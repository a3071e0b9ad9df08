package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"filetotext/internal/domain"
	"filetotext/internal/history"
	"filetotext/internal/keystore"
	"filetotext/internal/ports"
)

var (
	ErrNoFileSelected       = errors.New("no file selected")
	ErrConversionInProgress = errors.New("a conversion is already in progress")
	ErrAPIKeyRequired       = errors.New("a valid API key is required")
)

const (
	progressAccepted   = 10
	progressDispatched = 30
	progressReceived   = 90
	progressRecorded   = 100
)

// Config controls conversion behavior.
type Config struct {
	MaxFileSize int64
	Prompt      string
	ResetDelay  time.Duration
}

// Controller drives a selected file through validation, transcription,
// and history recording. At most one conversion is in flight at a time;
// results from superseded attempts are discarded by generation check.
type Controller struct {
	transcriber ports.Transcriber
	keys        *keystore.Store
	history     *history.Store
	events      ports.EventSink
	cfg         Config

	mu         sync.Mutex
	state      domain.SessionState
	file       *domain.FileInfo
	fileError  string
	progress   int
	result     string
	generation uint64

	wg sync.WaitGroup
}

func NewController(
	transcriber ports.Transcriber,
	keys *keystore.Store,
	historyStore *history.Store,
	events ports.EventSink,
	cfg Config,
) *Controller {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 50 << 20
	}
	return &Controller{
		transcriber: transcriber,
		keys:        keys,
		history:     historyStore,
		events:      events,
		cfg:         cfg,
		state:       domain.SessionStateIdle,
	}
}

// SelectFile validates the selection. On rejection the session stays idle
// with a user-facing error attached and no provider call is made; on
// acceptance the file is stored, any prior result is dropped, and the
// session awaits an explicit Start.
func (c *Controller) SelectFile(info domain.FileInfo) error {
	c.mu.Lock()
	if c.state == domain.SessionStateTranscribing {
		c.mu.Unlock()
		return ErrConversionInProgress
	}
	c.state = domain.SessionStateValidating
	c.mu.Unlock()

	resolved, verr := validateFile(info, c.cfg.MaxFileSize)

	c.mu.Lock()
	c.state = domain.SessionStateIdle
	if verr != nil {
		c.fileError = verr.Message
		c.mu.Unlock()

		c.events.SessionError(domain.ErrorCodeValidation, verr.Message)
		c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonValidationFailed)
		return verr
	}

	info.MIMEType = resolved
	c.file = &info
	c.fileError = ""
	c.result = ""
	c.progress = 0
	c.mu.Unlock()

	log.Info().Str("file", info.Name).Str("type", resolved).Int64("size", info.Size).Msg("file selected")
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonFileSelected)
	return nil
}

// ClearFile drops the selection, any error, and any prior result, returning
// the session to idle. An in-flight provider call is not aborted; bumping the
// generation makes its eventual result land dead.
func (c *Controller) ClearFile() error {
	c.mu.Lock()
	c.file = nil
	c.fileError = ""
	c.result = ""
	c.progress = 0
	c.state = domain.SessionStateIdle
	c.generation++
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonFileCleared)
	return nil
}

// ClearResult discards a displayed transcript and resets progress, keeping
// any selected file. It is rejected while a conversion is running so the
// active attempt's progress stays monotone.
func (c *Controller) ClearResult() error {
	c.mu.Lock()
	if c.state == domain.SessionStateTranscribing {
		c.mu.Unlock()
		return ErrConversionInProgress
	}
	c.result = ""
	c.progress = 0
	if c.state == domain.SessionStateSucceeded || c.state == domain.SessionStateFailed {
		c.state = domain.SessionStateIdle
	}
	state := c.state
	c.mu.Unlock()

	c.events.SessionStateChanged(state, domain.SessionReasonResultCleared)
	return nil
}

// Start begins converting the selected file. It requires a prior valid
// selection and a valid API key, and is rejected while another conversion
// is in flight. Document formats are answered with an explicit "coming
// soon" notice and never reach the provider.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == domain.SessionStateTranscribing {
		c.mu.Unlock()
		return ErrConversionInProgress
	}
	if c.file == nil {
		c.mu.Unlock()
		return ErrNoFileSelected
	}
	file := *c.file
	c.mu.Unlock()

	if !c.keys.IsValid() {
		c.events.SessionError(domain.ErrorCodeAPIKey, "Please add a valid OpenAI API key in settings first!")
		return ErrAPIKeyRequired
	}

	if isDocumentType(file.MIMEType) {
		c.events.Notice("Document processing is coming soon!")
		c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonDocumentUnsupported)
		return nil
	}

	c.mu.Lock()
	if c.state == domain.SessionStateTranscribing {
		c.mu.Unlock()
		return ErrConversionInProgress
	}
	if c.file == nil {
		c.mu.Unlock()
		return ErrNoFileSelected
	}
	c.generation++
	generation := c.generation
	c.state = domain.SessionStateTranscribing
	c.result = ""
	c.progress = progressAccepted
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateTranscribing, domain.SessionReasonConverting)
	c.events.ConversionProgress(progressAccepted)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, generation, file)
	}()
	return nil
}

// Status returns a snapshot of the session for the UI.
func (c *Controller) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := domain.Status{
		State:     c.state,
		Active:    c.state == domain.SessionStateTranscribing,
		Progress:  c.progress,
		FileError: c.fileError,
		Result:    c.result,
	}
	if c.file != nil {
		file := *c.file
		status.File = &file
	}
	return status
}

// Wait blocks until any in-flight conversion goroutine has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) run(ctx context.Context, generation uint64, file domain.FileInfo) {
	if !c.advance(generation, progressDispatched) {
		return
	}

	transcript, err := c.transcriber.Transcribe(ctx, ports.TranscriptionRequest{
		FilePath: file.Path,
		FileName: file.Name,
		APIKey:   c.keys.Get(),
		Prompt:   c.cfg.Prompt,
	})
	if err != nil {
		c.fail(generation, err)
		return
	}

	if !c.advance(generation, progressReceived) {
		return
	}

	text := transcript.Normalize()

	c.mu.Lock()
	if c.generation != generation || c.state != domain.SessionStateTranscribing {
		c.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("discarding stale conversion result")
		return
	}
	// The history append shares the attempt's critical section so a reset
	// that lands mid-delivery cannot leave a record for a discarded session.
	_, addErr := c.history.Add(history.NewRecord{
		FileName:      file.Name,
		FileType:      file.MIMEType,
		FileSize:      file.Size,
		ConvertedText: text,
	})
	c.result = text
	c.progress = progressRecorded
	c.state = domain.SessionStateSucceeded
	c.mu.Unlock()

	if addErr != nil {
		log.Error().Err(addErr).Str("file", file.Name).Msg("failed to record conversion history")
		c.events.SessionError(domain.ErrorCodeStorage, "Conversion succeeded but could not be saved to history.")
	}

	c.events.ConversionProgress(progressRecorded)
	c.events.ConversionResult(text)
	c.events.SessionStateChanged(domain.SessionStateSucceeded, domain.SessionReasonConversionCompleted)
	c.events.Notice("Conversion completed!")

	if c.cfg.ResetDelay > 0 {
		time.Sleep(c.cfg.ResetDelay)
	}

	c.mu.Lock()
	if c.generation != generation || c.state != domain.SessionStateSucceeded {
		c.mu.Unlock()
		return
	}
	c.file = nil
	c.state = domain.SessionStateIdle
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

// advance bumps progress if the attempt is still current. Progress only ever
// increases while the session is transcribing.
func (c *Controller) advance(generation uint64, progress int) bool {
	c.mu.Lock()
	if c.generation != generation || c.state != domain.SessionStateTranscribing {
		c.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("discarding stale conversion progress")
		return false
	}
	if progress > c.progress {
		c.progress = progress
	}
	c.mu.Unlock()

	c.events.ConversionProgress(progress)
	return true
}

// fail marks the attempt failed, zeroes progress, and keeps the selection so
// the user can retry without reselecting.
func (c *Controller) fail(generation uint64, cause error) {
	c.mu.Lock()
	if c.generation != generation || c.state != domain.SessionStateTranscribing {
		c.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("discarding stale conversion failure")
		return
	}
	c.progress = 0
	c.state = domain.SessionStateFailed
	c.mu.Unlock()

	detail := strings.TrimSpace(cause.Error())
	log.Error().Err(cause).Msg("conversion failed")
	c.events.SessionError(domain.ErrorCodeTranscription, detail)
	c.events.SessionStateChanged(domain.SessionStateFailed, domain.SessionReasonConversionFailed)
}
