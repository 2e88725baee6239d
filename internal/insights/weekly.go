package insights

import (
	"sort"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/mood"
	"github.com/lumahq/luma/internal/period"
)

// Pattern classifies a week's capture rhythm.
type Pattern string

const (
	PatternTimeLinked    Pattern = "time-linked"
	PatternDayClustering Pattern = "day-clustering"
	PatternMoodDrift     Pattern = "mood-drift"
	PatternNone          Pattern = "none"
)

// Weekly detection thresholds.
const (
	// minWeeklyCaptures gates pattern detection entirely; below it the
	// week classifies as PatternNone without running the detectors
	minWeeklyCaptures = 3

	// timeLinkedMinCaptures and timeLinkedShare: a week is time-linked
	// when one hour-of-day bucket holds at least this share of all
	// captures
	timeLinkedMinCaptures = 5
	timeLinkedShare       = 0.40

	// clusterRatio and clusterMinDayCaptures: the busiest day must
	// exceed this multiple of the 7-day average and hold at least this
	// many captures
	clusterRatio          = 1.8
	clusterMinDayCaptures = 3

	// driftMinActiveDays: breadth-of-activity signal
	driftMinActiveDays = 4
)

// DayDot is one capture rendered into a day slot's dot cloud.
type DayDot struct {
	TimePercent float64 `json:"time_percent"`
	Intensity   float64 `json:"intensity"`
	Color       string  `json:"color"`
	Mood        string  `json:"mood"`
}

// DaySlot is one of the week's seven day columns. Index 0 is the week
// start (Sunday).
type DaySlot struct {
	Dots []DayDot `json:"dots"`

	// IsHighlighted marks the busiest day when day-clustering fires
	IsHighlighted bool `json:"is_highlighted"`
}

// MoodWeight is one entry in the week's mood ranking.
type MoodWeight struct {
	Mood  string `json:"mood"` // raw mood identifier
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// WeeklySignal is the fully derived weekly classification. Never
// persisted; recomputed on demand from the live capture collection.
type WeeklySignal struct {
	Pattern       Pattern      `json:"pattern"`
	Message       string       `json:"message"`
	Days          [7]DaySlot   `json:"days"`
	Weights       []MoodWeight `json:"weights"`
	TotalCaptures int          `json:"total_captures"`
}

// NotEnoughDataMessage is the fixed message for sparse weeks.
const NotEnoughDataMessage = "Not enough check-ins this week to read a pattern yet."

// ComputeWeeklySignal aggregates a week's captures (already
// period-filtered) into per-day dot clouds, a mood ranking, and one of
// four pattern categories. weekStart must be the Sunday the window
// began; now drives insight text selection only.
func ComputeWeeklySignal(weekCaptures []capture.Capture, weekStart time.Time, now time.Time) WeeklySignal {
	sig := WeeklySignal{
		Pattern:       PatternNone,
		Weights:       weeklyWeights(weekCaptures),
		TotalCaptures: len(weekCaptures),
	}
	for i := range sig.Days {
		sig.Days[i].Dots = []DayDot{}
	}

	// Sparse weeks never reach the detectors.
	if len(weekCaptures) < minWeeklyCaptures {
		sig.Message = NotEnoughDataMessage
		return sig
	}

	dayCounts := [7]int{}
	hourCounts := [24]int{}
	for _, c := range weekCaptures {
		idx := period.DaysBetween(weekStart, c.CreatedAt)
		if idx < 0 || idx > 6 {
			continue
		}
		minutes := c.CreatedAt.Hour()*60 + c.CreatedAt.Minute()
		sig.Days[idx].Dots = append(sig.Days[idx].Dots, DayDot{
			TimePercent: float64(minutes) / minutesPerDay,
			Intensity:   jitter(c.ID),
			Color:       mood.ResolveColor(c.Mood, c.MoodName),
			Mood:        mood.ResolveLabel(c.Mood, c.MoodName),
		})
		dayCounts[idx]++
		hourCounts[c.CreatedAt.Hour()]++
	}

	// Precedence encodes priority: the categories are not mutually
	// exclusive by construction, so the first match wins.
	switch {
	case detectTimeLinked(hourCounts, len(weekCaptures)):
		sig.Pattern = PatternTimeLinked
	case detectClustering(dayCounts):
		sig.Pattern = PatternDayClustering
		sig.Days[busiestDay(dayCounts)].IsHighlighted = true
	case detectDrift(dayCounts):
		sig.Pattern = PatternMoodDrift
	}

	sig.Message = insightText(sig.Pattern, topMoodLabel(sig.Weights), weekStart, now)
	return sig
}

// weeklyWeights counts occurrences per raw mood identifier and ranks
// them descending. Produced regardless of pattern detection; it feeds
// the legend even for sparse weeks.
func weeklyWeights(weekCaptures []capture.Capture) []MoodWeight {
	order := make([]string, 0, len(weekCaptures))
	byMood := make(map[string]*MoodWeight, len(weekCaptures))

	for _, c := range weekCaptures {
		raw := c.Mood.Raw()
		w, ok := byMood[raw]
		if !ok {
			w = &MoodWeight{
				Mood:  raw,
				Label: mood.ResolveLabel(c.Mood, c.MoodName),
				Color: mood.ResolveColor(c.Mood, c.MoodName),
			}
			byMood[raw] = w
			order = append(order, raw)
		}
		w.Count++
	}

	weights := make([]MoodWeight, 0, len(order))
	for _, raw := range order {
		weights = append(weights, *byMood[raw])
	}
	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Count > weights[j].Count
	})
	return weights
}

func topMoodLabel(weights []MoodWeight) string {
	if len(weights) == 0 {
		return ""
	}
	return weights[0].Label
}

// detectTimeLinked fires when enough captures exist and any single
// hour-of-day bucket holds at least 40% of them.
func detectTimeLinked(hourCounts [24]int, total int) bool {
	if total < timeLinkedMinCaptures {
		return false
	}
	for _, n := range hourCounts {
		if float64(n)/float64(total) >= timeLinkedShare {
			return true
		}
	}
	return false
}

// detectClustering fires when the busiest day clearly dominates the
// average active day and carries real volume on its own. The average
// runs over days that have captures, so an evenly split three-day week
// does not read as clustering.
func detectClustering(dayCounts [7]int) bool {
	total, active := 0, 0
	for _, n := range dayCounts {
		total += n
		if n > 0 {
			active++
		}
	}
	if active == 0 {
		return false
	}
	busiest := dayCounts[busiestDay(dayCounts)]
	avg := float64(total) / float64(active)
	return float64(busiest) > clusterRatio*avg && busiest >= clusterMinDayCaptures
}

// detectDrift is the breadth-of-activity signal: captures spread over
// most of the week.
func detectDrift(dayCounts [7]int) bool {
	active := 0
	for _, n := range dayCounts {
		if n > 0 {
			active++
		}
	}
	return active >= driftMinActiveDays
}

func busiestDay(dayCounts [7]int) int {
	best := 0
	for i, n := range dayCounts {
		if n > dayCounts[best] {
			best = i
		}
	}
	return best
}
