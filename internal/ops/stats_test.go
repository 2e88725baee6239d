package ops

import (
	"testing"
	"time"

	"github.com/lumahq/luma/internal/insights"
)

func TestStreak(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	// Captures today and yesterday.
	now := time.Now()
	if _, err := Log(database, cfg, LogInput{Mood: "happy", At: timePtr(now)}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if _, err := Log(database, cfg, LogInput{Mood: "calm", At: timePtr(now.AddDate(0, 0, -1))}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	out, err := Streak(database, cfg)
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if out.Streaks.Current != 2 {
		t.Errorf("Current = %d, want 2", out.Streaks.Current)
	}
	if out.Streaks.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", out.Streaks.ActiveDays)
	}
}

func TestMoodByTime(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	morning := time.Date(2025, 3, 12, 8, 0, 0, 0, time.Local)
	evening := time.Date(2025, 3, 12, 19, 0, 0, 0, time.Local)
	if _, err := Log(database, cfg, LogInput{Mood: "happy", At: timePtr(morning)}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if _, err := Log(database, cfg, LogInput{Mood: "tired", At: timePtr(evening)}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	out, err := MoodByTime(database, cfg, MoodByTimeInput{})
	if err != nil {
		t.Fatalf("MoodByTime failed: %v", err)
	}

	byPart := make(map[insights.DayPart]insights.DayPartStat)
	for _, b := range out.Buckets {
		byPart[b.Part] = b
	}
	if byPart[insights.Morning].TopMood != "Happy" {
		t.Errorf("morning TopMood = %q, want Happy", byPart[insights.Morning].TopMood)
	}
	if byPart[insights.Evening].TopMood != "Tired" {
		t.Errorf("evening TopMood = %q, want Tired", byPart[insights.Evening].TopMood)
	}
	if byPart[insights.Night].Count != 0 {
		t.Errorf("night Count = %d, want 0", byPart[insights.Night].Count)
	}
}
