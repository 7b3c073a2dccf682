package transcript

import "github.com/10botics/cantonese-speech-to-text/internal/models"

// ActiveTokenAt returns the index of the word token whose [start, end]
// interval contains t, or -1 when no token is active. Both interval ends are
// inclusive, so a word stays highlighted through its full spoken duration.
// If engine output ever yields overlapping intervals the first token in
// stream order wins. Spacing and audio_event tokens are never active; their
// timings are not trustworthy.
func ActiveTokenAt(tokens []models.Token, t float64) int {
	for i, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		if tok.Start <= t && t <= tok.End {
			return i
		}
	}
	return -1
}

// ActiveSegmentAt returns the index of the segment whose [StartTime, EndTime]
// contains t, or -1. First match in order wins, mirroring ActiveTokenAt.
// Stateless per query, so out-of-order queries from user seeking are fine.
func ActiveSegmentAt(segments []models.Segment, t float64) int {
	for i, seg := range segments {
		if seg.StartTime <= t && t <= seg.EndTime {
			return i
		}
	}
	return -1
}

// TokenSeekTime returns the playback position a click on a token should seek
// to: the token's own start, not its segment's.
func TokenSeekTime(tok models.Token) float64 {
	return tok.Start
}
