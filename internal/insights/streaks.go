package insights

import (
	"sort"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/period"
)

// Streaks summarizes consecutive-day logging runs.
type Streaks struct {
	// Current is the run ending today, or yesterday when today has no
	// capture yet (an open day does not break the streak until it ends)
	Current int `json:"current"`

	Longest int `json:"longest"`

	// ActiveDays is the total number of distinct days with at least
	// one eligible capture
	ActiveDays int `json:"active_days"`
}

// ComputeStreaks derives streak analytics from the distinct local day
// keys of eligible captures.
func ComputeStreaks(captures []capture.Capture, now time.Time) Streaks {
	daySet := make(map[string]time.Time)
	for _, c := range captures {
		if !capture.Eligible(c) {
			continue
		}
		key := period.DayKey(c.CreatedAt)
		if _, ok := daySet[key]; !ok {
			daySet[key] = period.StartOfDay(c.CreatedAt)
		}
	}
	if len(daySet) == 0 {
		return Streaks{}
	}

	days := make([]time.Time, 0, len(daySet))
	for _, d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if period.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// Current streak: walk back from the most recent logged day, but
	// only when that day is today or yesterday.
	current := 0
	last := days[len(days)-1]
	if gap := period.DaysBetween(last, period.StartOfDay(now)); gap == 0 || gap == 1 {
		current = 1
		for i := len(days) - 2; i >= 0; i-- {
			if period.DaysBetween(days[i], days[i+1]) != 1 {
				break
			}
			current++
		}
	}

	return Streaks{Current: current, Longest: longest, ActiveDays: len(days)}
}
