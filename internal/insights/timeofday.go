package insights

import (
	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/mood"
)

// DayPart buckets the day into coarse segments for mood-by-time
// analytics and for the structured context sent to the summarizer.
type DayPart string

const (
	Morning   DayPart = "morning"   // 05:00–11:59
	Afternoon DayPart = "afternoon" // 12:00–16:59
	Evening   DayPart = "evening"   // 17:00–21:59
	Night     DayPart = "night"     // 22:00–04:59
)

// DayParts lists the buckets in display order.
var DayParts = []DayPart{Morning, Afternoon, Evening, Night}

// DayPartOf maps an hour of day to its bucket.
func DayPartOf(hour int) DayPart {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// DayPartStat is the aggregate for one bucket.
type DayPartStat struct {
	Part    DayPart `json:"part"`
	Count   int     `json:"count"`
	TopMood string  `json:"top_mood"` // empty when the bucket is empty
}

// ComputeMoodByTime buckets eligible captures into day parts and finds
// each bucket's most frequent resolved mood (first-occurrence
// tie-break, matching the daily-flow dominant rule).
func ComputeMoodByTime(captures []capture.Capture) []DayPartStat {
	type bucket struct {
		count  int
		order  []string
		counts map[string]int
	}
	buckets := make(map[DayPart]*bucket, len(DayParts))
	for _, p := range DayParts {
		buckets[p] = &bucket{counts: make(map[string]int)}
	}

	for _, c := range captures {
		if !capture.Eligible(c) {
			continue
		}
		b := buckets[DayPartOf(c.CreatedAt.Hour())]
		label := mood.ResolveLabel(c.Mood, c.MoodName)
		if _, seen := b.counts[label]; !seen {
			b.order = append(b.order, label)
		}
		b.counts[label]++
		b.count++
	}

	stats := make([]DayPartStat, 0, len(DayParts))
	for _, p := range DayParts {
		b := buckets[p]
		top, best := "", 0
		for _, label := range b.order {
			if b.counts[label] > best {
				top = label
				best = b.counts[label]
			}
		}
		stats = append(stats, DayPartStat{Part: p, Count: b.count, TopMood: top})
	}
	return stats
}
