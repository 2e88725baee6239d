// Package insights holds the deterministic aggregation core: pending
// counts against cached snapshots, daily mood flows, weekly mood-signal
// detection, monthly eligibility, and the derived analytics built from
// the raw capture stream. Everything here is pure and synchronous;
// persistence and the narrative backend live elsewhere.
package insights

import (
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/period"
)

// Snapshot is the cached summary record for one (user, kind, period)
// as the aggregation core sees it. IncludedIDs is a snapshot-in-time
// record of exactly which captures the narrative was built from; it is
// never mutated after creation, and staleness is always computed by
// diffing against it.
type Snapshot struct {
	GeneratedAt time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodKey   string
	IncludedIDs []string
	Narrative   string
	RequestID   string
}

// PendingInfo reports how much new data exists for one kind, so the UI
// can show an "N new captures, tap to refresh" affordance.
type PendingInfo struct {
	// PendingCount is the number of eligible captures in the current
	// period not yet represented in the cached snapshot
	PendingCount int `json:"pending_count"`

	// TotalEligible is the size of the eligible set for the period
	TotalEligible int `json:"total_eligible"`
}

// ComputePending computes pending counts for every temporal kind.
// snapshots may be partially populated; a missing snapshot means
// everything eligible is new (PendingCount == TotalEligible).
//
// This is a full recompute over the captures in each period, on
// purpose: incremental patching drifts, and the periods are small.
// Callers re-invoke it after every capture mutation and snapshot load.
func ComputePending(captures []capture.Capture, snapshots map[period.Kind]*Snapshot, now time.Time) map[period.Kind]PendingInfo {
	out := make(map[period.Kind]PendingInfo, len(period.Kinds))
	for _, kind := range period.Kinds {
		r, err := period.Resolve(kind, now)
		if err != nil {
			continue
		}
		out[kind] = pendingForPeriod(captures, r, snapshots[kind])
	}
	return out
}

// ComputePendingForSet computes pending info for an explicit eligible
// set (album scopes, which have membership instead of a window).
func ComputePendingForSet(captures []capture.Capture, snap *Snapshot) PendingInfo {
	return diffPending(capture.FilterEligible(captures), snap)
}

func pendingForPeriod(captures []capture.Capture, r period.Range, snap *Snapshot) PendingInfo {
	return diffPending(capture.FilterForPeriod(captures, r), snap)
}

func diffPending(eligible []capture.Capture, snap *Snapshot) PendingInfo {
	included := make(map[string]struct{})
	if snap != nil {
		for _, id := range snap.IncludedIDs {
			included[id] = struct{}{}
		}
	}

	pending := 0
	for _, c := range eligible {
		if _, ok := included[c.ID]; !ok {
			pending++
		}
	}
	return PendingInfo{PendingCount: pending, TotalEligible: len(eligible)}
}
