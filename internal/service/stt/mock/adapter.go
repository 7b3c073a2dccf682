// Package mock provides a mock STT adapter for development and tests
// without fal.ai credentials. It synthesizes a diarized word-token stream
// with realistic timing from a canned two-speaker conversation.
package mock

import (
	"context"
	"strings"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt"
)

// Turn is one scripted speaker turn.
type Turn struct {
	SpeakerID string
	Text      string
}

// DefaultConversation is the canned meeting used when no script is supplied.
var DefaultConversation = []Turn{
	{SpeakerID: "speaker_0", Text: "Good morning everyone let us begin"},
	{SpeakerID: "speaker_1", Text: "I have a question about the housing item"},
	{SpeakerID: "speaker_0", Text: "Go ahead please"},
	{SpeakerID: "speaker_1", Text: "When will the report be published"},
}

// Adapter implements stt.Adapter with synthesized responses.
type Adapter struct {
	conversation []Turn
	languageCode string
}

// New creates a mock adapter replaying DefaultConversation.
func New() *Adapter {
	return &Adapter{conversation: DefaultConversation, languageCode: "yue"}
}

// NewWithScript creates a mock adapter replaying the given turns.
func NewWithScript(turns []Turn, languageCode string) *Adapter {
	return &Adapter{conversation: turns, languageCode: languageCode}
}

// Transcribe ignores the audio and returns the scripted conversation as a
// diarized token stream. Each word takes 300ms with a 100ms gap; spacing
// tokens carry zero timings, matching real engine output.
func (a *Adapter) Transcribe(_ context.Context, req stt.Request) (*models.TranscriptionResult, error) {
	var words []models.Token
	var full strings.Builder
	cursor := 0.0

	for ti, turn := range a.conversation {
		speakerID := turn.SpeakerID
		for wi, w := range strings.Fields(turn.Text) {
			if wi > 0 {
				words = append(words, models.Token{Text: " ", Type: models.TokenSpacing})
				full.WriteString(" ")
			}
			words = append(words, models.Token{
				Text:      w,
				Type:      models.TokenWord,
				Start:     cursor,
				End:       cursor + 0.3,
				SpeakerID: &speakerID,
			})
			full.WriteString(w)
			cursor += 0.4
		}
		if ti < len(a.conversation)-1 {
			words = append(words, models.Token{Text: " ", Type: models.TokenSpacing})
			full.WriteString(" ")
			cursor += 0.2
		}
	}

	languageCode := a.languageCode
	if req.LanguageCode != "" {
		languageCode = req.LanguageCode
	}
	return &models.TranscriptionResult{
		Text:                full.String(),
		LanguageCode:        languageCode,
		LanguageProbability: 0.95,
		Words:               words,
	}, nil
}
