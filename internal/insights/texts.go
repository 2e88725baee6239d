package insights

import (
	"fmt"
	"time"
)

// Insight text pools per pattern, parameterized by the week's top mood
// label. Selection is a pure function of time components so the shown
// sentence varies through the day but stays fixed within a 15-minute
// window (and therefore testable).
var textPools = map[Pattern][]string{
	PatternTimeLinked: {
		"Your %s moments keep landing around the same time of day.",
		"There's a time of day that keeps bringing out %s for you.",
		"You tend to check in %s at a very consistent hour.",
	},
	PatternDayClustering: {
		"One day carried most of this week's moments, and %s led the way.",
		"This week's energy bunched up on a single day, mostly %s.",
		"A single standout day shaped your week, with %s on top.",
	},
	PatternMoodDrift: {
		"You checked in across most of the week, with %s setting the tone.",
		"Your moods drifted through the week, anchored by %s.",
		"Steady logging this week; %s showed up the most.",
	},
	PatternNone: {
		"No strong rhythm this week; %s was your most frequent mood.",
		"This week didn't settle into a pattern, though %s led your moods.",
	},
}

// insightText picks a sentence for the pattern. Deliberately
// time-varying within a day, deterministic within a 15-minute bucket.
func insightText(p Pattern, topMood string, weekStart, now time.Time) string {
	pool, ok := textPools[p]
	if !ok || len(pool) == 0 {
		return ""
	}
	if topMood == "" {
		topMood = "your mood"
	}
	seed := weekStart.Day() + len(string(p)) + now.Day() + now.Hour() + now.Minute()/15
	return fmt.Sprintf(pool[seed%len(pool)], topMood)
}
