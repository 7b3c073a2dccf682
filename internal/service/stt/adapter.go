// Package stt defines the interface for speech-to-text adapters.
package stt

import (
	"context"
	"io"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// Request describes one audio file to transcribe.
type Request struct {
	// Audio is the uploaded audio content.
	Audio io.Reader

	// Filename is the original upload name, used for content-type hints.
	Filename string

	// LanguageCode hints the spoken language (e.g. "yue"). Empty lets the
	// engine auto-detect.
	LanguageCode string

	// Diarize asks the engine to attribute a speaker id to each word.
	Diarize bool

	// TagAudioEvents asks the engine to tag non-speech audio.
	TagAudioEvents bool
}

// Adapter defines the interface for STT providers.
// One call per audio file, awaited to completion; timeouts and retries are
// the adapter's concern, never the transcript core's.
type Adapter interface {
	Transcribe(ctx context.Context, req Request) (*models.TranscriptionResult, error)
}
