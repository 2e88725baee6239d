// Package engine holds the insight orchestrators: thin state machines
// that check eligibility and staleness, assemble structured capture
// data, invoke the narrative backend, and persist the result. All
// heavy lifting lives in the pure packages it calls; the engine owns
// only sequencing and state.
package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/mood"
	"github.com/lumahq/luma/internal/period"
	"github.com/lumahq/luma/internal/summarizer"
)

// Status is the orchestrator state machine phase for one kind.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is the per-kind orchestrator state surfaced to callers.
type State struct {
	Status      Status               `json:"status"`
	Narrative   string               `json:"narrative,omitempty"`
	RequestID   string               `json:"request_id,omitempty"`
	Err         *errors.InsightError `json:"error,omitempty"`
	PeriodKey   string               `json:"period_key,omitempty"`
	GeneratedAt time.Time            `json:"generated_at,omitzero"`
}

// Engine coordinates insight generation across kinds. One in-flight
// generation per kind at most; kinds proceed independently.
type Engine struct {
	db  *sql.DB
	sum summarizer.Summarizer
	cfg *config.Config

	// now is the clock; tests swap it.
	now func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

// New builds an Engine over an open database and a summarizer backend.
func New(database *sql.DB, sum summarizer.Summarizer, cfg *config.Config) *Engine {
	return &Engine{
		db:     database,
		sum:    sum,
		cfg:    cfg,
		now:    time.Now,
		states: make(map[string]*State),
	}
}

func (e *Engine) user() string {
	if e.cfg != nil && e.cfg.User != "" {
		return e.cfg.User
	}
	return "local"
}

// State returns a copy of the current state for a kind.
func (e *Engine) State(kind period.Kind) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.stateLocked(string(kind))
}

// AlbumState returns a copy of the current state for an album scope.
func (e *Engine) AlbumState(albumID string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.stateLocked(albumStateKey(albumID))
}

func (e *Engine) stateLocked(key string) *State {
	s, ok := e.states[key]
	if !ok {
		s = &State{Status: StatusIdle}
		e.states[key] = s
	}
	return s
}

func albumStateKey(albumID string) string {
	return "album:" + albumID
}

// Focus runs the rollover check for every kind. Call on every
// app-foreground or screen-focus; there is no timer, so this is the
// only place stale state gets cleared.
func (e *Engine) Focus() {
	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, kind := range period.Kinds {
		key, err := period.Key(kind, now)
		if err != nil {
			continue
		}
		e.rolloverLocked(string(kind), key)
	}
}

// rolloverLocked resets state to idle when the stored period key no
// longer matches the current one. An empty stored key means nothing
// has been generated yet, so there is nothing to clear.
func (e *Engine) rolloverLocked(stateKey, freshPeriodKey string) {
	s := e.stateLocked(stateKey)
	if s.PeriodKey != "" && s.PeriodKey != freshPeriodKey {
		*s = State{Status: StatusIdle}
	}
}

// Refresh runs a full generation cycle for a daily or weekly scope:
// rollover check, single-flight guard, eligibility, summarize, persist.
// All failures land in the returned state; Refresh never propagates an
// error to the caller.
func (e *Engine) Refresh(ctx context.Context, kind period.Kind) State {
	now := e.now()
	r, err := period.Resolve(kind, now)
	if err != nil {
		return e.fail(string(kind), "", errors.From(err))
	}
	periodKey, err := period.Key(kind, now)
	if err != nil {
		return e.fail(string(kind), "", errors.From(err))
	}

	stateKey := string(kind)
	if !e.begin(stateKey, periodKey) {
		return e.snapshotState(stateKey)
	}

	eligible, ierr := e.loadEligible(&r.Start, &r.End)
	if ierr != nil {
		return e.fail(stateKey, periodKey, ierr)
	}
	if len(eligible) == 0 {
		// A period with nothing to summarize is a valid empty result,
		// not an error.
		return e.finish(stateKey, periodKey, State{Status: StatusIdle, PeriodKey: periodKey})
	}

	req := summarizer.NarrativeRequest{
		PeriodLabel: periodLabel(kind, r.Start),
		Captures:    structuredCaptures(eligible),
		ToneStyle:   e.cfg.ToneStyle,
	}
	res, err := e.sum.Narrative(ctx, req)
	if err != nil {
		return e.fail(stateKey, periodKey, errors.From(err))
	}

	state := State{
		Status:      StatusSuccess,
		Narrative:   res.Text,
		RequestID:   res.RequestID,
		PeriodKey:   periodKey,
		GeneratedAt: now,
	}
	final := e.finish(stateKey, periodKey, state)
	if final.Status != StatusSuccess {
		// Discarded: the period rolled over while the request was in
		// flight.
		return final
	}

	if ierr := e.persistSnapshot(string(kind), periodKey, r, eligible, res, now); ierr != nil {
		return e.fail(stateKey, periodKey, ierr)
	}
	return final
}

// RefreshAlbum runs the generation cycle for one album. Albums have no
// time window: eligibility is the opt-out flag only, and the period key
// is the album ID (albums never roll over).
func (e *Engine) RefreshAlbum(ctx context.Context, albumID string) State {
	now := e.now()
	stateKey := albumStateKey(albumID)
	if !e.begin(stateKey, albumID) {
		return e.snapshotState(stateKey)
	}

	album, err := db.GetAlbum(e.db, albumID)
	if err != nil {
		return e.fail(stateKey, albumID, errors.NewFetch(err))
	}
	members, err := db.ListAlbumCaptures(e.db, albumID)
	if err != nil {
		return e.fail(stateKey, albumID, errors.NewFetch(err))
	}
	eligible := capture.FilterEligible(members)
	if len(eligible) == 0 {
		return e.finish(stateKey, albumID, State{Status: StatusIdle, PeriodKey: albumID})
	}

	req := summarizer.NarrativeRequest{
		PeriodLabel: album.Name,
		Captures:    structuredCaptures(eligible),
		ToneStyle:   e.cfg.ToneStyle,
	}
	res, err := e.sum.Narrative(ctx, req)
	if err != nil {
		return e.fail(stateKey, albumID, errors.From(err))
	}

	state := State{
		Status:      StatusSuccess,
		Narrative:   res.Text,
		RequestID:   res.RequestID,
		PeriodKey:   albumID,
		GeneratedAt: now,
	}
	final := e.finish(stateKey, albumID, state)
	if final.Status != StatusSuccess {
		return final
	}

	r := period.Range{Start: eligible[0].CreatedAt, End: now}
	if ierr := e.persistSnapshot("album", albumID, r, eligible, res, now); ierr != nil {
		return e.fail(stateKey, albumID, ierr)
	}
	return final
}

// begin claims the loading slot for a state key. Returns false when a
// generation is already in flight (the caller must treat the call as a
// no-op). Runs the rollover check first so a stale success never
// blocks a fresh refresh.
func (e *Engine) begin(stateKey, freshPeriodKey string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rolloverLocked(stateKey, freshPeriodKey)
	s := e.stateLocked(stateKey)
	if s.Status == StatusLoading {
		return false
	}
	*s = State{Status: StatusLoading, PeriodKey: freshPeriodKey}
	return true
}

// finish applies a terminal state, unless the period rolled over while
// the generation was in flight, in which case the result is discarded
// and the state resets to idle.
func (e *Engine) finish(stateKey, startedPeriodKey string, final State) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stateLocked(stateKey)
	if s.PeriodKey != startedPeriodKey {
		*s = State{Status: StatusIdle}
		return *s
	}
	*s = final
	return *s
}

// fail applies an error state through the same stale-result guard as
// finish: an error from a request that outlived a rollover is
// discarded, not shown against the fresh period.
func (e *Engine) fail(stateKey, startedPeriodKey string, ierr *errors.InsightError) State {
	return e.finish(stateKey, startedPeriodKey, State{
		Status:    StatusError,
		Err:       ierr,
		PeriodKey: startedPeriodKey,
	})
}

func (e *Engine) snapshotState(stateKey string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.stateLocked(stateKey)
}

func (e *Engine) loadEligible(from, to *time.Time) ([]capture.Capture, *errors.InsightError) {
	all, err := db.ListCaptures(e.db, e.user(), from, to)
	if err != nil {
		return nil, errors.NewFetch(err)
	}
	return capture.FilterEligible(all), nil
}

func (e *Engine) persistSnapshot(kind, periodKey string, r period.Range, eligible []capture.Capture, res *summarizer.NarrativeResult, now time.Time) *errors.InsightError {
	ids := make([]string, len(eligible))
	for i, c := range eligible {
		ids[i] = c.ID
	}
	snap := &insights.Snapshot{
		GeneratedAt: now,
		PeriodStart: r.Start,
		PeriodEnd:   r.End,
		PeriodKey:   periodKey,
		IncludedIDs: ids,
		Narrative:   res.Text,
		RequestID:   res.RequestID,
	}
	id, err := generateULID()
	if err != nil {
		return errors.NewUnknown(err)
	}
	if err := db.PutSnapshot(e.db, id, e.user(), kind, snap); err != nil {
		return errors.NewFetch(err)
	}
	return nil
}

// structuredCaptures flattens captures for the summarizer payload.
// Mood labels are resolved here so raw IDs never cross the boundary.
func structuredCaptures(captures []capture.Capture) []summarizer.StructuredCapture {
	out := make([]summarizer.StructuredCapture, 0, len(captures))
	for _, c := range captures {
		sc := summarizer.StructuredCapture{
			Mood:       mood.ResolveLabel(c.Mood, c.MoodName),
			Timestamp:  c.CreatedAt.Format(time.RFC3339),
			Tags:       c.Tags,
			TimeBucket: fmt.Sprintf("%02d:00", c.CreatedAt.Hour()),
			DayPart:    string(insights.DayPartOf(c.CreatedAt.Hour())),
		}
		if c.Note != nil {
			sc.Note = *c.Note
		}
		out = append(out, sc)
	}
	return out
}

func periodLabel(kind period.Kind, start time.Time) string {
	switch kind {
	case period.Daily:
		return start.Format("Monday, January 2")
	case period.Weekly:
		return "Week of " + start.Format("January 2")
	case period.Monthly:
		return start.Format("January 2006")
	default:
		return start.Format("January 2, 2006")
	}
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
