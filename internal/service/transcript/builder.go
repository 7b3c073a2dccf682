// Package transcript reconstructs speaker turns from the flat word-token
// stream returned by the transcription engine and maps playback positions
// back to tokens for highlighting and seeking.
package transcript

import (
	"fmt"
	"strings"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// Build groups a token stream into ordered speaker segments.
//
// Single left-to-right pass:
//   - a word token whose effective speaker id differs from the open run's id
//     closes that run (flushed only if its trimmed text is non-empty) and
//     opens a new one
//   - spacing tokens extend an open run; spacing before the run's first word
//     is dropped, never retroactively attached
//   - audio_event tokens are transparent: not part of segment text and never
//     a run boundary
//
// Labels are "Speaker N" ordinals assigned by order of first appearance of
// each distinct effective speaker id across the whole stream, so a speaker
// reappearing after others keeps its original ordinal. The pass never fails:
// tokens with missing speaker ids fall back to models.DefaultSpeakerID and
// spacing timings are never trusted.
func Build(tokens []models.Token) []models.Segment {
	labels := newLabelSet()

	var segments []models.Segment
	var run []models.Token
	currentSpeaker := ""

	flush := func() {
		if seg, ok := finishRun(run, currentSpeaker, labels); ok {
			segments = append(segments, seg)
		}
		run = nil
	}

	for _, tok := range tokens {
		switch tok.Type {
		case models.TokenWord:
			id := tok.EffectiveSpeakerID()
			// Ordinal is claimed at first encounter, not at flush, so a
			// speaker keeps its number even if an earlier run of theirs
			// trimmed down to nothing.
			labels.labelFor(id)
			if id != currentSpeaker {
				flush()
				currentSpeaker = id
			}
			run = append(run, tok)
		case models.TokenSpacing:
			if len(run) > 0 {
				run = append(run, tok)
			}
		default:
			// audio_event and anything unrecognized: transparent.
		}
	}
	flush()

	return segments
}

// finishRun turns an open run into a segment. Returns false for runs whose
// trimmed text is empty; no empty segments are ever emitted.
func finishRun(run []models.Token, speakerID string, labels *labelSet) (models.Segment, bool) {
	if len(run) == 0 || speakerID == "" {
		return models.Segment{}, false
	}

	var b strings.Builder
	for _, tok := range run {
		b.WriteString(tok.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return models.Segment{}, false
	}

	// Boundaries come from word tokens only.
	start, end := 0.0, 0.0
	found := false
	for _, tok := range run {
		if !tok.IsWord() {
			continue
		}
		if !found {
			start = tok.Start
			found = true
		}
		end = tok.End
	}

	return models.Segment{
		SpeakerLabel: labels.labelFor(speakerID),
		SpeakerID:    speakerID,
		Tokens:       run,
		Text:         text,
		StartTime:    start,
		EndTime:      end,
	}, true
}

// labelSet assigns stable "Speaker N" ordinals by first appearance.
type labelSet struct {
	ordinals map[string]int
}

func newLabelSet() *labelSet {
	return &labelSet{ordinals: make(map[string]int)}
}

func (s *labelSet) labelFor(speakerID string) string {
	n, ok := s.ordinals[speakerID]
	if !ok {
		n = len(s.ordinals) + 1
		s.ordinals[speakerID] = n
	}
	return fmt.Sprintf("Speaker %d", n)
}
