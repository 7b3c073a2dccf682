// Package speaker maps anonymous speaker labels ("Speaker 1") onto real
// participant names by asking an external language model, with a best-effort
// contract: an unusable model response degrades to an empty mapping and
// never fails the caller.
package speaker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// Unknown is the reserved sentinel the model uses for low-confidence
// speakers. Treated specially only for display and statistics.
const Unknown = "Unknown"

const systemPrompt = "You are a meeting analysis expert. Respond with only valid JSON. " +
	"Do not include any explanations or additional text."

// CompletionClient is the external naming engine. Implementations own
// transport, timeouts and retries.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Resolver resolves speaker labels to participant names. It owns the current
// label->name overlay, which is replaced wholesale on every resolution so
// stale names from a previous audio/participant combination never survive.
type Resolver struct {
	client CompletionClient

	mu      sync.RWMutex
	mapping map[string]string
}

// NewResolver creates a resolver backed by the given naming engine.
func NewResolver(client CompletionClient) *Resolver {
	return &Resolver{
		client:  client,
		mapping: map[string]string{},
	}
}

// Resolve asks the naming engine to match each segment's speaker label to a
// participant. An empty participant description short-circuits to an empty
// mapping without an external call. Engine errors and unparsable responses
// also yield an empty mapping; the error return is informational only and
// the stored overlay is always replaced.
func (r *Resolver) Resolve(ctx context.Context, segments []models.Segment, participants string) (map[string]string, error) {
	if strings.TrimSpace(participants) == "" {
		r.store(map[string]string{})
		return map[string]string{}, nil
	}

	raw, err := r.client.Complete(ctx, systemPrompt, buildPrompt(segments, participants))
	if err != nil {
		log.Warn().Err(err).Msg("Speaker naming engine call failed, keeping anonymous labels")
		r.store(map[string]string{})
		return map[string]string{}, err
	}

	mapping, ok := ParseMapping(raw)
	if !ok {
		log.Warn().
			Int("responseLength", len(raw)).
			Msg("Speaker naming response contained no parsable JSON object, keeping anonymous labels")
		mapping = map[string]string{}
	}

	r.store(mapping)
	return mapping, nil
}

// Mapping returns a copy of the current label->name overlay.
func (r *Resolver) Mapping() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.mapping))
	for k, v := range r.mapping {
		out[k] = v
	}
	return out
}

// Clear drops the current overlay, as when the user clears results before a
// re-identification.
func (r *Resolver) Clear() {
	r.store(map[string]string{})
}

// Stats summarizes the current overlay for display.
type Stats struct {
	Total      int
	Identified int
	Unknown    int
}

// Stats counts identified vs Unknown entries in the current overlay.
func (r *Resolver) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{Total: len(r.mapping)}
	for _, name := range r.mapping {
		if name == Unknown {
			s.Unknown++
		} else {
			s.Identified++
		}
	}
	return s
}

func (r *Resolver) store(mapping map[string]string) {
	r.mu.Lock()
	r.mapping = mapping
	r.mu.Unlock()
}

// FormatTranscript serializes segments into the plain turn-by-turn transcript
// sent to the naming engine: one "<label>: <text>" line per segment,
// blank-line separated.
func FormatTranscript(segments []models.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("%s: %s", seg.SpeakerLabel, seg.Text))
	}
	return strings.Join(lines, "\n\n")
}

func buildPrompt(segments []models.Segment, participants string) string {
	return fmt.Sprintf(`You are analyzing a meeting transcript to identify speakers based on their roles and topics they discuss.

Participant List:
%s

Meeting Transcript:
%s

Please match each speaker to a participant based on:
- Their role in the meeting (chairperson, questioner, responder)
- The topics they discuss
- Their speaking patterns and authority level

Return only valid JSON with speaker mappings. Use "Unknown" if unsure.
Format: {"Speaker 1": "name", "Speaker 2": "name"}`, participants, FormatTranscript(segments))
}
