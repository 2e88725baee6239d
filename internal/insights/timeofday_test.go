package insights

import (
	"testing"

	"github.com/lumahq/luma/internal/capture"
)

func TestDayPartOf(t *testing.T) {
	tests := []struct {
		hour int
		want DayPart
	}{
		{5, Morning}, {11, Morning},
		{12, Afternoon}, {16, Afternoon},
		{17, Evening}, {21, Evening},
		{22, Night}, {23, Night}, {0, Night}, {4, Night},
	}
	for _, tt := range tests {
		if got := DayPartOf(tt.hour); got != tt.want {
			t.Errorf("DayPartOf(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestComputeMoodByTime(t *testing.T) {
	captures := []capture.Capture{
		testCapture(at(2025, 3, 10, 8, 0), "happy"),
		testCapture(at(2025, 3, 11, 9, 0), "happy"),
		testCapture(at(2025, 3, 11, 10, 0), "calm"),
		testCapture(at(2025, 3, 12, 20, 0), "tired"),
	}

	stats := ComputeMoodByTime(captures)
	if len(stats) != 4 {
		t.Fatalf("got %d buckets, want 4", len(stats))
	}

	byPart := make(map[DayPart]DayPartStat, len(stats))
	for _, s := range stats {
		byPart[s.Part] = s
	}

	if m := byPart[Morning]; m.Count != 3 || m.TopMood != "Happy" {
		t.Errorf("morning = %+v, want 3 captures topped by Happy", m)
	}
	if e := byPart[Evening]; e.Count != 1 || e.TopMood != "Tired" {
		t.Errorf("evening = %+v, want 1 capture topped by Tired", e)
	}
	if a := byPart[Afternoon]; a.Count != 0 || a.TopMood != "" {
		t.Errorf("afternoon = %+v, want empty bucket", a)
	}
}
