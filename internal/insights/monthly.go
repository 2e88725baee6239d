package insights

import (
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/period"
)

// Monthly gating thresholds.
const (
	// monthlyMinElapsedDays and monthlyMinActiveDays must BOTH hold
	// before monthly narrative generation unlocks
	monthlyMinElapsedDays = 7
	monthlyMinActiveDays  = 7

	// regenCaptureDelta: a cached monthly phrase is regenerated once
	// the capture count has moved this far from the cached comparator
	regenCaptureDelta = 10

	// MinPhraseCaptures: below this the month cannot carry a phrase at
	// all, and any previously shown phrase must be cleared
	MinPhraseCaptures = 3
)

// MonthlyEligibility is the unlock decision for one month.
type MonthlyEligibility struct {
	Unlocked    bool `json:"unlocked"`
	ElapsedDays int  `json:"elapsed_days"`
	ActiveDays  int  `json:"active_days"`
}

// MonthlySummary is the cached phrase/reasoning row for one month.
// TotalCaptures is purely a regeneration-threshold comparator, never a
// source of truth for counts.
type MonthlySummary struct {
	MonthKey      string    `json:"month_key"`
	Phrase        *string   `json:"phrase,omitempty"`
	Reasoning     *string   `json:"reasoning,omitempty"`
	TotalCaptures int       `json:"total_captures"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ComputeMonthlyEligibility decides whether a month has accumulated
// enough signal to unlock narrative generation. The through date is
// now for the current month, or the month's last calendar day for past
// months; both the elapsed-day and active-day conditions are required.
func ComputeMonthlyEligibility(monthCaptures []capture.Capture, monthStart, now time.Time) MonthlyEligibility {
	through := now
	if period.MonthKey(monthStart) != period.MonthKey(now) {
		through = period.EndOfMonth(monthStart)
	}

	activeDays := countActiveDays(monthCaptures)
	elapsed := through.Day()

	return MonthlyEligibility{
		Unlocked:    elapsed >= monthlyMinElapsedDays && activeDays >= monthlyMinActiveDays,
		ElapsedDays: elapsed,
		ActiveDays:  activeDays,
	}
}

// NeedsRegeneration decides whether the cached monthly phrase must be
// rebuilt. force bypasses the gate unconditionally.
func NeedsRegeneration(cached *MonthlySummary, currentTotal int, force bool) bool {
	if force {
		return true
	}
	if cached == nil || cached.Phrase == nil || cached.Reasoning == nil {
		return true
	}
	delta := currentTotal - cached.TotalCaptures
	if delta < 0 {
		delta = -delta
	}
	return delta >= regenCaptureDelta
}

// CanCarryPhrase reports whether the month has enough captures to show
// a phrase at all. Below the floor, stale phrases are cleared rather
// than displayed.
func CanCarryPhrase(totalCaptures int) bool {
	return totalCaptures >= MinPhraseCaptures
}

func countActiveDays(captures []capture.Capture) int {
	days := make(map[string]struct{})
	for _, c := range captures {
		if capture.Eligible(c) {
			days[period.DayKey(c.CreatedAt)] = struct{}{}
		}
	}
	return len(days)
}
