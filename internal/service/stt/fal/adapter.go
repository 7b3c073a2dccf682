// Package fal provides an STT adapter for the fal.ai ElevenLabs
// speech-to-text endpoint.
package fal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
	"github.com/10botics/cantonese-speech-to-text/internal/models"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt"
)

// DefaultEndpoint is the synchronous fal.ai run endpoint for the ElevenLabs
// scribe model.
const DefaultEndpoint = "https://fal.run/fal-ai/elevenlabs/speech-to-text"

// Config holds adapter configuration.
type Config struct {
	Endpoint string
	APIKey   string
	// Timeout bounds the whole transcription call. Transcription of long
	// clips is slow, so this is generous by default.
	Timeout time.Duration
}

// Adapter implements stt.Adapter against fal.ai.
type Adapter struct {
	cfg    Config
	client *http.Client
}

// New creates a fal.ai adapter.
func New(cfg Config) *Adapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// request is the fal.ai input payload. Audio travels inline as a data URI,
// which the platform accepts anywhere it accepts a URL.
type request struct {
	AudioURL       string `json:"audio_url"`
	LanguageCode   string `json:"language_code,omitempty"`
	TagAudioEvents bool   `json:"tag_audio_events"`
	Diarize        bool   `json:"diarize"`
}

// Transcribe uploads the audio and decodes the engine's word-token response.
func (a *Adapter) Transcribe(ctx context.Context, req stt.Request) (*models.TranscriptionResult, error) {
	audio, err := io.ReadAll(req.Audio)
	if err != nil {
		return nil, apperr.Upstream("transcription", fmt.Errorf("reading audio: %w", err))
	}

	payload, err := json.Marshal(request{
		AudioURL:       dataURI(audio, req.Filename),
		LanguageCode:   req.LanguageCode,
		TagAudioEvents: req.TagAudioEvents,
		Diarize:        req.Diarize,
	})
	if err != nil {
		return nil, apperr.Upstream("transcription", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Upstream("transcription", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+a.cfg.APIKey)

	start := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, apperr.Upstream("transcription", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32*1024*1024))
	if err != nil {
		return nil, apperr.Upstream("transcription", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(body), 512)).
			Msg("fal.ai transcription request rejected")
		return nil, apperr.Upstream("transcription", fmt.Errorf("engine returned status %d", resp.StatusCode))
	}

	var result models.TranscriptionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperr.Upstream("transcription", fmt.Errorf("decoding engine response: %w", err))
	}

	log.Info().
		Str("languageCode", result.LanguageCode).
		Float64("languageProbability", result.LanguageProbability).
		Int("tokens", len(result.Words)).
		Dur("elapsed", time.Since(start)).
		Msg("Transcription completed")

	return &result, nil
}

func dataURI(audio []byte, filename string) string {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(audio)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
