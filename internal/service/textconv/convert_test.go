package textconv

import (
	"testing"

	"github.com/10botics/cantonese-speech-to-text/internal/models"
)

// doubler changes string lengths, standing in for script conversions that
// do not map one character to one character.
type doubler struct{}

func (doubler) Convert(text string) string { return text + text }

func TestConvertResult_PreservesTiming(t *testing.T) {
	speaker := "s1"
	in := models.TranscriptionResult{
		Text:         "ab",
		LanguageCode: "yue",
		Words: []models.Token{
			{Text: "a", Type: models.TokenWord, Start: 0.5, End: 1.0, SpeakerID: &speaker},
			{Text: " ", Type: models.TokenSpacing},
			{Text: "b", Type: models.TokenWord, Start: 1.0, End: 1.5, SpeakerID: &speaker},
		},
	}

	out := ConvertResult(in, doubler{})

	if out.Text != "abab" {
		t.Errorf("expected converted text 'abab', got %q", out.Text)
	}
	if out.Words[0].Text != "aa" || out.Words[2].Text != "bb" {
		t.Errorf("token text not converted: %+v", out.Words)
	}
	for i, tok := range out.Words {
		if tok.Start != in.Words[i].Start || tok.End != in.Words[i].End {
			t.Errorf("token %d timing changed: got [%v, %v], want [%v, %v]",
				i, tok.Start, tok.End, in.Words[i].Start, in.Words[i].End)
		}
		if tok.Type != in.Words[i].Type {
			t.Errorf("token %d type changed", i)
		}
	}
	if out.Words[0].SpeakerID == nil || *out.Words[0].SpeakerID != "s1" {
		t.Error("speaker id not preserved")
	}

	// Input untouched.
	if in.Words[0].Text != "a" || in.Text != "ab" {
		t.Error("input result mutated")
	}
}

func TestIdentity(t *testing.T) {
	if got := (Identity{}).Convert("不变"); got != "不变" {
		t.Errorf("identity changed text: %q", got)
	}
}

func TestSimplifiedToTraditional(t *testing.T) {
	// 识 -> 識 is a stable simplified/traditional pair.
	got := (SimplifiedToTraditional{}).Convert("识")
	if got != "識" {
		t.Errorf("expected 識, got %q", got)
	}
}
