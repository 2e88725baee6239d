package errors

import "fmt"

// Stage identifies where an insight generation attempt failed. The set
// is closed: values arriving from the summarizer boundary that are not
// listed here normalize to StageUnknown.
type Stage string

const (
	StageAuth     Stage = "auth"     // expired/missing credential; user must re-authenticate
	StageFetch    Stage = "fetch"    // could not load source data; retryable
	StageModel    Stage = "model"    // summarizer backend unavailable; retryable after delay
	StageParse    Stage = "parse"    // summarizer response malformed
	StageValidate Stage = "validate" // locally detected invalid input; never reaches the network
	StageExtract  Stage = "extract"  // summarizer succeeded but an expected field is missing
	StageUnknown  Stage = "unknown"  // catch-all
)

// knownStages is the closed stage set for normalization.
var knownStages = map[Stage]bool{
	StageAuth: true, StageFetch: true, StageModel: true, StageParse: true,
	StageValidate: true, StageExtract: true, StageUnknown: true,
}

// NormalizeStage maps an arbitrary stage string onto the closed set.
func NormalizeStage(s string) Stage {
	if knownStages[Stage(s)] {
		return Stage(s)
	}
	return StageUnknown
}

// InsightError is a structured error with a stage, a message, and an
// optional server-issued request ID for support-ticket correlation.
type InsightError struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *InsightError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// New creates an error for the given stage, normalizing unknown stages.
func New(stage Stage, msg string) *InsightError {
	return &InsightError{Stage: NormalizeStage(string(stage)), Message: msg}
}

// NewAuth creates an auth-stage error.
func NewAuth(msg string) *InsightError {
	return &InsightError{Stage: StageAuth, Message: msg}
}

// NewFetch creates a fetch-stage error wrapping a data-load failure.
func NewFetch(err error) *InsightError {
	msg := "could not load source data"
	if err != nil {
		msg = err.Error()
	}
	return &InsightError{Stage: StageFetch, Message: msg}
}

// NewModel creates a model-stage error.
func NewModel(msg string) *InsightError {
	return &InsightError{Stage: StageModel, Message: msg}
}

// NewParse creates a parse-stage error.
func NewParse(msg string) *InsightError {
	return &InsightError{Stage: StageParse, Message: msg}
}

// NewValidate creates a validate-stage error. Validation failures must
// be raised before any network call is made.
func NewValidate(msg string) *InsightError {
	return &InsightError{Stage: StageValidate, Message: msg}
}

// NewExtract creates an extract-stage error.
func NewExtract(msg string) *InsightError {
	return &InsightError{Stage: StageExtract, Message: msg}
}

// NewUnknown creates a catch-all error from an arbitrary failure.
func NewUnknown(err error) *InsightError {
	msg := "unexpected error"
	if err != nil {
		msg = err.Error()
	}
	return &InsightError{Stage: StageUnknown, Message: msg}
}

// WithRequestID returns a copy of the error carrying the request ID.
func (e *InsightError) WithRequestID(id string) *InsightError {
	out := *e
	out.RequestID = id
	return &out
}

// Is checks if an error is an InsightError with the given stage.
func Is(err error, stage Stage) bool {
	if iErr, ok := err.(*InsightError); ok {
		return iErr.Stage == stage
	}
	return false
}

// From coerces any error into an InsightError, preserving typed errors
// and wrapping everything else as unknown.
func From(err error) *InsightError {
	if err == nil {
		return nil
	}
	if iErr, ok := err.(*InsightError); ok {
		return iErr
	}
	return NewUnknown(err)
}

// userMessages is the fixed per-stage mapping to human-readable text.
var userMessages = map[Stage]string{
	StageAuth:     "Please sign in again to refresh your insights.",
	StageFetch:    "Couldn't load your moments. Check your connection and try again.",
	StageModel:    "The insight service is busy right now. Try again in a moment.",
	StageParse:    "Something went wrong reading the insight. Please try again.",
	StageValidate: "Some of your moments couldn't be processed.",
	StageExtract:  "The insight came back incomplete. Please try again.",
	StageUnknown:  "Something went wrong. Please try again.",
}

// UserMessage derives the user-facing message for an error. The raw
// request ID is appended when present, never shown as the primary
// message.
func UserMessage(err error) string {
	iErr := From(err)
	if iErr == nil {
		return ""
	}
	msg := userMessages[NormalizeStage(string(iErr.Stage))]
	if iErr.RequestID != "" {
		msg = fmt.Sprintf("%s (ref: %s)", msg, iErr.RequestID)
	}
	return msg
}
