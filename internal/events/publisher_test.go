package events

import (
	"context"
	"testing"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerCompleted != nil {
				t.Error("expected nil completed writer when disabled")
			}
			if p.writerSpeakers != nil {
				t.Error("expected nil speakers writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		Brokers:        []string{"localhost:9092"},
		TopicCompleted: "test.completed",
		TopicSpeakers:  "test.speakers",
		Principal:      "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicCompleted != "test.completed" {
		t.Errorf("expected topic 'test.completed', got %s", p.topicCompleted)
	}
	if p.topicSpeakers != "test.speakers" {
		t.Errorf("expected topic 'test.speakers', got %s", p.topicSpeakers)
	}
}

func TestPublisher_PublishDisabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	completed := models.TranscriptCompleted{
		EventType:    "transcript.completed",
		TranscriptID: "tr-123",
		ClientID:     "203.0.113.7",
		LanguageCode: "yue",
		SegmentCount: 4,
	}
	if err := p.PublishCompleted(context.Background(), "203.0.113.7", completed); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}

	speakers := models.SpeakersIdentified{
		EventType: "transcript.speakers-identified",
		Mappings:  map[string]string{"Speaker 1": "Alice"},
	}
	if err := p.PublishSpeakers(context.Background(), "203.0.113.7", speakers); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishInvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// A channel cannot be marshaled.
	event := make(chan int)
	if err := p.PublishCompleted(context.Background(), "test-key", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
	if err := p.PublishSpeakers(context.Background(), "test-key", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilWriters(t *testing.T) {
	p := &Publisher{}

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
