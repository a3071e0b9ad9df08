// Package openai implements the transcription provider against the OpenAI
// audio transcription API.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"filetotext/internal/domain"
	"filetotext/internal/ports"
)

// ErrConversionFailed is the single failure the provider reports. Transport
// errors, rejected keys, and malformed responses are all folded into it; the
// underlying cause is logged, not returned.
var ErrConversionFailed = errors.New("conversion failed")

// Config controls the OpenAI transcription endpoint.
type Config struct {
	APIBaseURL string
	Model      string
	Prompt     string
}

// Provider implements ports.Transcriber for the OpenAI Whisper API.
type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	return &Provider{cfg: cfg}
}

// Transcribe submits the audio file and returns the transcript. The verbose
// response format is requested so segment start offsets are available; a
// response without segments degrades to the flat text form.
func (p *Provider) Transcribe(ctx context.Context, req ports.TranscriptionRequest) (domain.Transcript, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return domain.Transcript{}, ErrConversionFailed
	}

	clientCfg := openai.DefaultConfig(req.APIKey)
	clientCfg.BaseURL = p.cfg.APIBaseURL
	client := openai.NewClientWithConfig(clientCfg)

	prompt := req.Prompt
	if prompt == "" {
		prompt = p.cfg.Prompt
	}

	log.Debug().Str("file", req.FileName).Str("model", p.cfg.Model).Msg("transcription request dispatched")

	resp, err := client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.cfg.Model,
		FilePath: req.FilePath,
		Prompt:   prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		log.Error().Err(err).Str("file", req.FileName).Msg("transcription request failed")
		return domain.Transcript{}, ErrConversionFailed
	}

	transcript := domain.Transcript{Text: strings.TrimSpace(resp.Text)}
	for _, segment := range resp.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		transcript.Segments = append(transcript.Segments, domain.Segment{
			Start: time.Duration(segment.Start * float64(time.Second)),
			Text:  text,
		})
	}

	log.Debug().
		Str("file", req.FileName).
		Int("segments", len(transcript.Segments)).
		Msg("transcription request completed")
	return transcript, nil
}
