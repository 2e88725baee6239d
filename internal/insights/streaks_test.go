package insights

import (
	"testing"

	"github.com/lumahq/luma/internal/capture"
)

func TestComputeStreaks_Empty(t *testing.T) {
	got := ComputeStreaks(nil, at(2025, 3, 12, 10, 0))
	if got.Current != 0 || got.Longest != 0 || got.ActiveDays != 0 {
		t.Errorf("got %+v, want zeroes", got)
	}
}

func TestComputeStreaks_RunEndingToday(t *testing.T) {
	captures := []capture.Capture{
		testCapture(at(2025, 3, 10, 9, 0), "happy"),
		testCapture(at(2025, 3, 11, 9, 0), "calm"),
		testCapture(at(2025, 3, 12, 9, 0), "happy"),
	}
	got := ComputeStreaks(captures, at(2025, 3, 12, 20, 0))
	if got.Current != 3 || got.Longest != 3 {
		t.Errorf("got %+v, want current 3, longest 3", got)
	}
}

func TestComputeStreaks_TodayNotLoggedYetKeepsStreak(t *testing.T) {
	captures := []capture.Capture{
		testCapture(at(2025, 3, 10, 9, 0), "happy"),
		testCapture(at(2025, 3, 11, 9, 0), "calm"),
	}
	// It is the morning of the 12th; yesterday's run still counts.
	got := ComputeStreaks(captures, at(2025, 3, 12, 8, 0))
	if got.Current != 2 {
		t.Errorf("Current = %d, want 2 (open day does not break the run)", got.Current)
	}
}

func TestComputeStreaks_GapBreaksCurrent(t *testing.T) {
	captures := []capture.Capture{
		testCapture(at(2025, 3, 5, 9, 0), "happy"),
		testCapture(at(2025, 3, 6, 9, 0), "calm"),
		testCapture(at(2025, 3, 7, 9, 0), "happy"),
	}
	got := ComputeStreaks(captures, at(2025, 3, 12, 10, 0))
	if got.Current != 0 {
		t.Errorf("Current = %d, want 0 after a gap", got.Current)
	}
	if got.Longest != 3 {
		t.Errorf("Longest = %d, want 3", got.Longest)
	}
}

func TestComputeStreaks_MultipleCapturesPerDay(t *testing.T) {
	captures := []capture.Capture{
		testCapture(at(2025, 3, 11, 9, 0), "happy"),
		testCapture(at(2025, 3, 11, 21, 0), "tired"),
		testCapture(at(2025, 3, 12, 9, 0), "calm"),
	}
	got := ComputeStreaks(captures, at(2025, 3, 12, 20, 0))
	if got.Current != 2 || got.ActiveDays != 2 {
		t.Errorf("got %+v, want current 2, active 2", got)
	}
}

func TestComputeStreaks_IneligibleIgnored(t *testing.T) {
	out := testCapture(at(2025, 3, 12, 9, 0), "happy")
	out.IncludeInInsights = boolPtr(false)
	got := ComputeStreaks([]capture.Capture{out}, at(2025, 3, 12, 20, 0))
	if got.ActiveDays != 0 {
		t.Errorf("ActiveDays = %d, want 0 for opted-out capture", got.ActiveDays)
	}
}
