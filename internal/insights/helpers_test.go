package insights

import (
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/capture"
)

var seq int

// cap builds a test capture with a unique ID at the given instant.
func testCapture(at time.Time, moodID string) capture.Capture {
	seq++
	return capture.Capture{
		ID:        fmt.Sprintf("c%03d", seq),
		CreatedAt: at,
		Mood:      capture.ParseMoodRef(moodID),
	}
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func boolPtr(b bool) *bool { return &b }

func stringPtr(s string) *string { return &s }
