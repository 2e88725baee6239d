package capture

import "github.com/lumahq/luma/internal/period"

// FilterForPeriod returns the captures created within the window,
// bounds inclusive, that are eligible for aggregation. Input order is
// preserved; the input slice is never mutated.
func FilterForPeriod(captures []Capture, r period.Range) []Capture {
	out := make([]Capture, 0, len(captures))
	for _, c := range captures {
		if !Eligible(c) {
			continue
		}
		if r.Contains(c.CreatedAt) {
			out = append(out, c)
		}
	}
	return out
}

// FilterEligible returns the eligible subset with no window applied
// (album scopes have membership instead of a time window).
func FilterEligible(captures []Capture) []Capture {
	out := make([]Capture, 0, len(captures))
	for _, c := range captures {
		if Eligible(c) {
			out = append(out, c)
		}
	}
	return out
}

// ForDay returns the eligible captures whose local day key matches key,
// in input order.
func ForDay(captures []Capture, key string) []Capture {
	out := make([]Capture, 0, len(captures))
	for _, c := range captures {
		if Eligible(c) && period.DayKey(c.CreatedAt) == key {
			out = append(out, c)
		}
	}
	return out
}
