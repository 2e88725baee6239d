// Package summarizer defines the narrative generation contract and its
// OpenAI-backed implementation. The engine depends only on the
// Summarizer interface so tests can substitute fakes.
package summarizer

import (
	"context"

	"github.com/lumahq/luma/internal/errors"
)

// StructuredCapture is the flattened view of a capture sent to the
// narrative backend. Raw mood IDs never appear here; Mood is always a
// resolved display label.
type StructuredCapture struct {
	Mood       string   `json:"mood"`
	Note       string   `json:"note,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Tags       []string `json:"tags,omitempty"`
	TimeBucket string   `json:"timeBucket,omitempty"`
	DayPart    string   `json:"dayPart,omitempty"`
}

// NarrativeRequest asks for a free-form narrative over one period.
type NarrativeRequest struct {
	PeriodLabel string
	Captures    []StructuredCapture
	ToneStyle   string
}

// NarrativeResult carries the generated text plus the backend-issued
// request ID for support correlation.
type NarrativeResult struct {
	Text      string
	RequestID string
}

// PhraseRequest asks for the short monthly phrase and its reasoning.
type PhraseRequest struct {
	MonthLabel string
	Captures   []StructuredCapture
	ToneStyle  string
}

// PhraseResult is the monthly phrase pair.
type PhraseResult struct {
	Phrase    string
	Reasoning string
	RequestID string
}

// Summarizer generates narrative text from structured capture data.
type Summarizer interface {
	Narrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error)
	MonthlyPhrase(ctx context.Context, req PhraseRequest) (*PhraseResult, error)
}

// ValidateCaptures checks that every capture has a resolved mood label.
// A capture with an unresolvable mood must never reach the backend, so
// this runs before any network call.
func ValidateCaptures(captures []StructuredCapture) error {
	for _, c := range captures {
		if c.Mood == "" {
			return errors.NewValidate("capture has no resolvable mood label")
		}
		if c.Timestamp == "" {
			return errors.NewValidate("capture has no timestamp")
		}
	}
	return nil
}
