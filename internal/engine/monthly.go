package engine

import (
	"context"

	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/period"
	"github.com/lumahq/luma/internal/summarizer"
)

// MonthlyResult is what the monthly orchestrator hands back: the
// eligibility verdict plus the summary, when one exists.
type MonthlyResult struct {
	State       State                       `json:"state"`
	Eligibility insights.MonthlyEligibility `json:"eligibility"`
	// Summary is nil while the month is locked or has never generated.
	Summary *insights.MonthlySummary `json:"summary,omitempty"`
	// FromCache reports that the regeneration gate held and the cached
	// phrase was served unchanged.
	FromCache bool `json:"from_cache"`
}

// RefreshMonthly runs the monthly cycle: eligibility unlock, the
// capture-delta regeneration gate, the phrase floor, then generation.
// force bypasses the regeneration gate but not the unlock or the floor.
func (e *Engine) RefreshMonthly(ctx context.Context, force bool) MonthlyResult {
	now := e.now()
	r, err := period.Resolve(period.Monthly, now)
	if err != nil {
		return MonthlyResult{State: e.fail(string(period.Monthly), "", errors.From(err))}
	}
	monthKey := period.MonthKey(now)

	stateKey := string(period.Monthly)
	if !e.begin(stateKey, monthKey) {
		return MonthlyResult{State: e.snapshotState(stateKey)}
	}

	eligible, ierr := e.loadEligible(&r.Start, &r.End)
	if ierr != nil {
		return MonthlyResult{State: e.fail(stateKey, monthKey, ierr)}
	}

	elig := insights.ComputeMonthlyEligibility(eligible, r.Start, now)
	if !elig.Unlocked {
		state := e.finish(stateKey, monthKey, State{Status: StatusIdle, PeriodKey: monthKey})
		return MonthlyResult{State: state, Eligibility: elig}
	}

	cached, err := db.GetMonthlySummary(e.db, e.user(), monthKey)
	if err != nil {
		return MonthlyResult{State: e.fail(stateKey, monthKey, errors.NewFetch(err))}
	}

	total := len(eligible)
	if !insights.NeedsRegeneration(cached, total, force) {
		state := e.finish(stateKey, monthKey, State{
			Status:      StatusSuccess,
			Narrative:   derefOrEmpty(cached.Phrase),
			PeriodKey:   monthKey,
			GeneratedAt: cached.GeneratedAt,
		})
		return MonthlyResult{State: state, Eligibility: elig, Summary: cached, FromCache: true}
	}

	if !insights.CanCarryPhrase(total) {
		// Below the phrase floor: clear any previously shown phrase
		// rather than serving stale content.
		cleared := &insights.MonthlySummary{
			MonthKey:      monthKey,
			TotalCaptures: total,
			GeneratedAt:   now,
		}
		if err := db.PutMonthlySummary(e.db, e.user(), cleared); err != nil {
			return MonthlyResult{State: e.fail(stateKey, monthKey, errors.NewFetch(err))}
		}
		state := e.finish(stateKey, monthKey, State{Status: StatusIdle, PeriodKey: monthKey})
		return MonthlyResult{State: state, Eligibility: elig, Summary: cleared}
	}

	req := summarizer.PhraseRequest{
		MonthLabel: periodLabel(period.Monthly, r.Start),
		Captures:   structuredCaptures(eligible),
		ToneStyle:  e.cfg.ToneStyle,
	}
	res, err := e.sum.MonthlyPhrase(ctx, req)
	if err != nil {
		return MonthlyResult{State: e.fail(stateKey, monthKey, errors.From(err)), Eligibility: elig}
	}

	summary := &insights.MonthlySummary{
		MonthKey:      monthKey,
		Phrase:        &res.Phrase,
		Reasoning:     &res.Reasoning,
		TotalCaptures: total,
		GeneratedAt:   now,
	}
	state := e.finish(stateKey, monthKey, State{
		Status:      StatusSuccess,
		Narrative:   res.Phrase,
		RequestID:   res.RequestID,
		PeriodKey:   monthKey,
		GeneratedAt: now,
	})
	if state.Status != StatusSuccess {
		// Month rolled over mid-flight; drop the result.
		return MonthlyResult{State: state, Eligibility: elig}
	}
	if err := db.PutMonthlySummary(e.db, e.user(), summary); err != nil {
		return MonthlyResult{State: e.fail(stateKey, monthKey, errors.NewFetch(err)), Eligibility: elig}
	}
	// Record the snapshot too, so the monthly pending count clears:
	// staleness is always diffed against the snapshot's included IDs,
	// not the summary row.
	narrative := &summarizer.NarrativeResult{Text: res.Phrase, RequestID: res.RequestID}
	if ierr := e.persistSnapshot(string(period.Monthly), monthKey, r, eligible, narrative, now); ierr != nil {
		return MonthlyResult{State: e.fail(stateKey, monthKey, ierr), Eligibility: elig}
	}
	return MonthlyResult{State: state, Eligibility: elig, Summary: summary}
}

// MonthlyEligibility reports the unlock verdict without generating.
func (e *Engine) MonthlyEligibility() (insights.MonthlyEligibility, error) {
	now := e.now()
	r, err := period.Resolve(period.Monthly, now)
	if err != nil {
		return insights.MonthlyEligibility{}, err
	}
	eligible, ierr := e.loadEligible(&r.Start, &r.End)
	if ierr != nil {
		return insights.MonthlyEligibility{}, ierr
	}
	return insights.ComputeMonthlyEligibility(eligible, r.Start, now), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
