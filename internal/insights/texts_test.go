package insights

import (
	"strings"
	"testing"
)

func TestInsightText_StableWithinQuarterHour(t *testing.T) {
	ws := weekStart
	a := insightText(PatternMoodDrift, "Happy", ws, at(2025, 3, 12, 14, 0))
	b := insightText(PatternMoodDrift, "Happy", ws, at(2025, 3, 12, 14, 14))
	if a != b {
		t.Errorf("text changed within a 15-minute window: %q vs %q", a, b)
	}
}

func TestInsightText_VariesAcrossPools(t *testing.T) {
	ws := weekStart
	seen := make(map[string]bool)
	// Sweep a day in 15-minute steps; with pool sizes >= 2 more than
	// one sentence must appear.
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			seen[insightText(PatternTimeLinked, "Happy", ws, at(2025, 3, 12, hour, minute))] = true
		}
	}
	if len(seen) < 2 {
		t.Error("selection never varied across a full day")
	}
}

func TestInsightText_ContainsTopMood(t *testing.T) {
	got := insightText(PatternDayClustering, "Grateful", weekStart, at(2025, 3, 12, 9, 0))
	if !strings.Contains(got, "Grateful") {
		t.Errorf("text %q does not mention the top mood", got)
	}
}

func TestInsightText_EmptyTopMoodFallback(t *testing.T) {
	got := insightText(PatternNone, "", weekStart, at(2025, 3, 12, 9, 0))
	if got == "" {
		t.Error("expected a sentence even with no ranked mood")
	}
	if strings.Contains(got, "%!s") || strings.Contains(got, "%s") {
		t.Errorf("formatting placeholder leaked: %q", got)
	}
}
