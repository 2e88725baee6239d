package insights

import (
	"hash/fnv"
	"sort"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/mood"
)

const minutesPerDay = 24 * 60

// FlowSegment is one capture's contribution to a day's mood timeline.
type FlowSegment struct {
	// TimePercent is the capture's position within the day, in [0, 1)
	TimePercent float64 `json:"time_percent"`

	// Mood is the resolved display label
	Mood string `json:"mood"`

	// Color is the resolved mood color
	Color string `json:"color"`

	// Intensity is a decorative rendering weight, deterministic per
	// capture but not semantically meaningful
	Intensity float64 `json:"intensity"`
}

// DailyFlow is one day's captures as an ordered mood timeline.
type DailyFlow struct {
	Segments []FlowSegment `json:"segments"`

	// Dominant is the most frequent resolved label; empty when the day
	// has no captures
	Dominant string `json:"dominant"`

	TotalCaptures int `json:"total_captures"`
}

// ComputeDailyFlow converts one day's captures into time-weighted mood
// segments plus a dominant mood. Segments come back in chronological
// order. Dominant ties break toward the first-occurring label.
func ComputeDailyFlow(dayCaptures []capture.Capture) DailyFlow {
	if len(dayCaptures) == 0 {
		return DailyFlow{Segments: []FlowSegment{}}
	}

	segments := make([]FlowSegment, 0, len(dayCaptures))
	labelOrder := make([]string, 0, len(dayCaptures))
	counts := make(map[string]int, len(dayCaptures))

	for _, c := range dayCaptures {
		label := mood.ResolveLabel(c.Mood, c.MoodName)
		minutes := c.CreatedAt.Hour()*60 + c.CreatedAt.Minute()
		segments = append(segments, FlowSegment{
			TimePercent: float64(minutes) / minutesPerDay,
			Mood:        label,
			Color:       mood.ResolveColor(c.Mood, c.MoodName),
			Intensity:   jitter(c.ID),
		})
		if _, seen := counts[label]; !seen {
			labelOrder = append(labelOrder, label)
		}
		counts[label]++
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].TimePercent < segments[j].TimePercent
	})

	dominant := ""
	best := 0
	for _, label := range labelOrder {
		if counts[label] > best {
			dominant = label
			best = counts[label]
		}
	}

	return DailyFlow{
		Segments:      segments,
		Dominant:      dominant,
		TotalCaptures: len(dayCaptures),
	}
}

// jitter derives a stable value in [0.5, 1.0) from an ID, used only as
// a rendering weight.
func jitter(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return 0.5 + float64(h.Sum32()%50)/100
}
