package speaker

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// stubClient returns canned responses in order, or an error.
type stubClient struct {
	responses []string
	err       error
	calls     int
	lastUser  string
}

func (s *stubClient) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.lastUser = userPrompt
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func sampleSegments() []models.Segment {
	return []models.Segment{
		{SpeakerLabel: "Speaker 1", Text: "Let's begin the meeting"},
		{SpeakerLabel: "Speaker 2", Text: "I have a question about housing"},
	}
}

func TestResolve_HappyPath(t *testing.T) {
	client := &stubClient{responses: []string{`{"Speaker 1": "Alice", "Speaker 2": "Bob"}`}}
	r := NewResolver(client)

	mapping, err := r.Resolve(context.Background(), sampleSegments(), "Alice (chair), Bob (member)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"Speaker 1": "Alice", "Speaker 2": "Bob"}
	if !reflect.DeepEqual(mapping, want) {
		t.Errorf("expected %v, got %v", want, mapping)
	}
	if !reflect.DeepEqual(r.Mapping(), want) {
		t.Errorf("stored mapping should match, got %v", r.Mapping())
	}
}

func TestResolve_EmptyParticipantsSkipsCall(t *testing.T) {
	client := &stubClient{responses: []string{`{"Speaker 1": "Alice"}`}}
	r := NewResolver(client)

	mapping, err := r.Resolve(context.Background(), sampleSegments(), "   ")
	if err != nil {
		t.Fatalf("empty participants is not an error, got %v", err)
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty mapping, got %v", mapping)
	}
	if client.calls != 0 {
		t.Errorf("no external call expected, got %d", client.calls)
	}
}

func TestResolve_UnparsableResponseSoftFails(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain prose", "I could not determine the speakers."},
		{"broken json", "{not valid json]"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&stubClient{responses: []string{tt.response}})

			mapping, err := r.Resolve(context.Background(), sampleSegments(), "Alice")
			if err != nil {
				t.Fatalf("unparsable response must not error, got %v", err)
			}
			if len(mapping) != 0 {
				t.Errorf("expected empty mapping, got %v", mapping)
			}
		})
	}
}

func TestResolve_ExtractsEmbeddedJSON(t *testing.T) {
	response := "Sure! Here is the mapping:\n```json\n{\"Speaker 1\": \"Alice\"}\n```\nHope that helps."
	r := NewResolver(&stubClient{responses: []string{response}})

	mapping, err := r.Resolve(context.Background(), sampleSegments(), "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapping["Speaker 1"] != "Alice" {
		t.Errorf("expected Alice, got %v", mapping)
	}
}

func TestResolve_ReplacesMappingWholesale(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"Speaker 1": "Alice", "Speaker 2": "Bob"}`,
		`{"Speaker 1": "Carol"}`,
	}}
	r := NewResolver(client)

	if _, err := r.Resolve(context.Background(), sampleSegments(), "Alice, Bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background(), sampleSegments(), "Carol"); err != nil {
		t.Fatal(err)
	}

	mapping := r.Mapping()
	if _, stale := mapping["Speaker 2"]; stale {
		t.Errorf("stale key from first resolution survived: %v", mapping)
	}
	if mapping["Speaker 1"] != "Carol" {
		t.Errorf("expected Carol, got %v", mapping)
	}
}

func TestResolve_EngineErrorClearsMapping(t *testing.T) {
	r := NewResolver(&stubClient{responses: []string{`{"Speaker 1": "Alice"}`}})
	if _, err := r.Resolve(context.Background(), sampleSegments(), "Alice"); err != nil {
		t.Fatal(err)
	}

	r.client = &stubClient{err: errors.New("engine down")}
	mapping, err := r.Resolve(context.Background(), sampleSegments(), "Alice")
	if err == nil {
		t.Fatal("expected informational error")
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty mapping after failure, got %v", mapping)
	}
	if len(r.Mapping()) != 0 {
		t.Errorf("stored mapping should be cleared, got %v", r.Mapping())
	}
}

func TestResolve_PromptCarriesTranscriptAndParticipants(t *testing.T) {
	client := &stubClient{responses: []string{`{}`}}
	r := NewResolver(client)

	if _, err := r.Resolve(context.Background(), sampleSegments(), "Alice (chair)"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Speaker 1: Let's begin the meeting",
		"Speaker 2: I have a question about housing",
		"Alice (chair)",
	} {
		if !strings.Contains(client.lastUser, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStatsAndClear(t *testing.T) {
	r := NewResolver(&stubClient{responses: []string{
		`{"Speaker 1": "Alice", "Speaker 2": "Unknown", "Speaker 3": "Bob"}`,
	}})
	if _, err := r.Resolve(context.Background(), sampleSegments(), "Alice, Bob"); err != nil {
		t.Fatal(err)
	}

	s := r.Stats()
	if s.Total != 3 || s.Identified != 2 || s.Unknown != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}

	r.Clear()
	if len(r.Mapping()) != 0 {
		t.Errorf("Clear should drop the overlay, got %v", r.Mapping())
	}
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript(sampleSegments())
	want := "Speaker 1: Let's begin the meeting\n\nSpeaker 2: I have a question about housing"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
