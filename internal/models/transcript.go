// Package models defines the data structures for transcription results.
package models

// Token types emitted by the transcription engine.
const (
	TokenWord    = "word"
	TokenSpacing = "spacing"
	// TokenAudioEvent tags non-speech audio (laughter, applause). Passed
	// through by the engine but never part of segment text.
	TokenAudioEvent = "audio_event"
)

// DefaultSpeakerID is the sentinel speaker id used for word tokens the
// engine left unattributed.
const DefaultSpeakerID = "speaker_0"

// Token is the atomic timed unit of a transcription result.
// Start/End are seconds from the beginning of the audio. For spacing tokens
// the engine may emit zero or bogus timings, so they must never be used as
// segment boundaries.
type Token struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID *string `json:"speaker_id,omitempty"`
}

// IsWord reports whether the token is a spoken word (or punctuation attached
// to one) rather than spacing or an audio event tag.
func (t Token) IsWord() bool {
	return t.Type == TokenWord
}

// EffectiveSpeakerID returns the token's speaker id, falling back to
// DefaultSpeakerID when the engine left the field unset.
func (t Token) EffectiveSpeakerID() string {
	if t.SpeakerID == nil || *t.SpeakerID == "" {
		return DefaultSpeakerID
	}
	return *t.SpeakerID
}

// TranscriptionResult is the payload returned by the speech-to-text engine.
type TranscriptionResult struct {
	Text                string  `json:"text"`
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
	Words               []Token `json:"words"`
}

// Segment is a maximal contiguous run of tokens attributed to one speaker.
// Built once per transcription result and immutable afterward; speaker name
// overlays (label -> human name) live outside the segment itself.
type Segment struct {
	// SpeakerLabel is the 1-based ordinal display label ("Speaker 1"),
	// assigned by order of first appearance of the speaker id.
	SpeakerLabel string `json:"speaker"`
	// SpeakerID is the effective engine speaker id backing the label.
	SpeakerID string `json:"speakerId"`
	// Tokens are the run's tokens in stream order, including interior
	// spacing. Leading spacing is dropped by the builder.
	Tokens []Token `json:"tokens,omitempty"`
	// Text is the concatenation of token texts, trimmed. Never empty.
	Text string `json:"text"`
	// StartTime/EndTime come from the first and last word token of the run;
	// spacing tokens never define boundaries.
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// SeekTime returns the playback position a click on the segment header
// should seek to.
func (s Segment) SeekTime() float64 {
	return s.StartTime
}
