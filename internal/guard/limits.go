// Package guard holds the external-facing request guards consulted before
// any external engine call: audio limits validation and per-client rate
// limiting.
package guard

import (
	"fmt"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
)

// Limits bounds what a single transcription request may carry.
type Limits struct {
	MaxDurationSeconds      float64
	MaxFileSizeBytes        int64
	AdvisoryDurationSeconds float64
}

// DefaultLimits returns the service's shipped limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDurationSeconds:      600,
		MaxFileSizeBytes:        50 * 1024 * 1024,
		AdvisoryDurationSeconds: 300,
	}
}

// Validate checks audio duration (seconds) and file size (bytes) against the
// hard limits. A zero duration or size is treated as unknown and skipped.
// On pass it returns informational warnings, which never block processing.
func (l Limits) Validate(durationSeconds float64, fileSizeBytes int64) ([]string, error) {
	var warnings []string

	if durationSeconds > 0 && durationSeconds > l.MaxDurationSeconds {
		return nil, apperr.Validation(
			fmt.Sprintf("audio duration (%.0fs) exceeds maximum limit of %.0fs, please use a shorter audio file",
				durationSeconds, l.MaxDurationSeconds),
			durationSeconds, l.MaxDurationSeconds,
		).WithDetail("reason", "duration")
	}

	if fileSizeBytes > 0 && fileSizeBytes > l.MaxFileSizeBytes {
		return nil, apperr.Validation(
			fmt.Sprintf("file size (%dMB) exceeds maximum limit of %dMB, please use a smaller file",
				fileSizeBytes/(1024*1024), l.MaxFileSizeBytes/(1024*1024)),
			fileSizeBytes, l.MaxFileSizeBytes,
		).WithDetail("reason", "size")
	}

	if durationSeconds > 0 {
		if durationSeconds > l.AdvisoryDurationSeconds {
			warnings = append(warnings, fmt.Sprintf("large audio file (%.0fs), processing may take longer", durationSeconds))
		}
		warnings = append(warnings, fmt.Sprintf("audio duration: %.0fs", durationSeconds))
	}

	return warnings, nil
}
