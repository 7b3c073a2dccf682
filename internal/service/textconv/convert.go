// Package textconv converts transcript text between Chinese scripts while
// leaving token timing untouched, so playback highlighting survives
// conversions that change string lengths.
package textconv

import (
	gojianfan "github.com/siongui/gojianfan"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// Converter maps a text fragment to its display form.
type Converter interface {
	Convert(text string) string
}

// Identity passes text through unchanged.
type Identity struct{}

func (Identity) Convert(text string) string { return text }

// SimplifiedToTraditional converts simplified Chinese characters to
// traditional, character by character.
type SimplifiedToTraditional struct{}

func (SimplifiedToTraditional) Convert(text string) string {
	return gojianfan.S2T(text)
}

// ConvertResult applies the converter to the full text and to every token's
// text, returning a new result. Start/End timings and speaker ids are copied
// verbatim: timing comes from the engine's alignment against the audio and
// must not shift when the script substitution changes character counts.
func ConvertResult(result models.TranscriptionResult, conv Converter) models.TranscriptionResult {
	out := result
	out.Text = conv.Convert(result.Text)
	out.Words = make([]models.Token, len(result.Words))
	for i, tok := range result.Words {
		converted := tok
		converted.Text = conv.Convert(tok.Text)
		out.Words[i] = converted
	}
	return out
}
