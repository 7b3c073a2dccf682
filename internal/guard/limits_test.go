package guard

import (
	"errors"
	"strings"
	"testing"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
)

func TestValidate_WithinLimits(t *testing.T) {
	limits := DefaultLimits()

	warnings, err := limits.Validate(120, 4*1024*1024)
	if err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	// Short clip: only the informational duration line.
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
}

func TestValidate_DurationExceeded(t *testing.T) {
	limits := DefaultLimits()

	_, err := limits.Validate(601, 1024)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if ae.Kind != apperr.KindValidation {
		t.Errorf("expected kind %s, got %s", apperr.KindValidation, ae.Kind)
	}
	if ae.Details["measured"] != 601.0 {
		t.Errorf("expected measured 601, got %v", ae.Details["measured"])
	}
	if ae.Details["reason"] != "duration" {
		t.Errorf("expected reason duration, got %v", ae.Details["reason"])
	}
	if !strings.Contains(ae.Message, "601s") || !strings.Contains(ae.Message, "600s") {
		t.Errorf("message should carry measured value and limit, got %q", ae.Message)
	}
}

func TestValidate_SizeExceeded(t *testing.T) {
	limits := DefaultLimits()

	_, err := limits.Validate(60, 51*1024*1024)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if !strings.Contains(ae.Message, "51MB") || !strings.Contains(ae.Message, "50MB") {
		t.Errorf("message should carry measured size and limit, got %q", ae.Message)
	}
	if ae.Details["reason"] != "size" {
		t.Errorf("expected reason size, got %v", ae.Details["reason"])
	}
}

func TestValidate_AdvisoryWarningNeverBlocks(t *testing.T) {
	limits := DefaultLimits()

	warnings, err := limits.Validate(400, 1024) // over the 300s advisory, under the 600s limit
	if err != nil {
		t.Fatalf("advisory threshold must not block, got %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "processing may take longer") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected advisory warning, got %v", warnings)
	}
}

func TestValidate_UnknownValuesSkipped(t *testing.T) {
	limits := DefaultLimits()

	warnings, err := limits.Validate(0, 0)
	if err != nil {
		t.Fatalf("unknown duration and size must pass, got %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
