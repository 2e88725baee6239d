package ops

import (
	"testing"
	"time"

	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/period"
)

func TestLog_HappyPath(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	out, err := Log(database, cfg, LogInput{
		Mood: "happy",
		Note: stringPtr("sunny walk"),
		Tags: []string{"outside", " walk "},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if out.ID == "" {
		t.Error("ID is empty")
	}
	if out.MoodLabel != "Happy" {
		t.Errorf("MoodLabel = %q, want Happy", out.MoodLabel)
	}
	if out.MoodColor == "" {
		t.Error("MoodColor is empty")
	}

	got, err := db.GetCapture(database, out.ID)
	if err != nil {
		t.Fatalf("GetCapture failed: %v", err)
	}
	if got.Note == nil || *got.Note != "sunny walk" {
		t.Errorf("Note = %v", got.Note)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "walk" {
		t.Errorf("Tags = %v, want trimmed [outside walk]", got.Tags)
	}
	if got.IncludeInInsights != nil {
		t.Errorf("IncludeInInsights = %v, want nil default", *got.IncludeInInsights)
	}
}

func TestLog_RequiresMood(t *testing.T) {
	database := testDB(t)

	_, err := Log(database, testCfg(), LogInput{Mood: "  "})
	if !errors.Is(err, errors.StageValidate) {
		t.Errorf("Log with blank mood: err = %v, want validate stage", err)
	}
}

func TestLog_CustomMood(t *testing.T) {
	database := testDB(t)

	out, err := Log(database, testCfg(), LogInput{
		Mood:     "custom_01abc",
		MoodName: stringPtr("Cozy"),
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if out.MoodLabel != "Cozy" {
		t.Errorf("MoodLabel = %q, want Cozy", out.MoodLabel)
	}
}

func TestLog_InvalidatesFlowCache(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
	if _, err := Log(database, cfg, LogInput{Mood: "happy", At: timePtr(at)}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	// Prime the cache, then log again on the same day.
	dayKey := period.DayKey(at)
	if _, err := Flow(database, cfg, FlowInput{Day: dayKey}); err != nil {
		t.Fatalf("Flow failed: %v", err)
	}
	cached, err := db.GetDailyFlow(database, "local", dayKey)
	if err != nil || cached == nil {
		t.Fatalf("flow not cached: %v %v", cached, err)
	}

	if _, err := Log(database, cfg, LogInput{Mood: "calm", At: timePtr(at.Add(time.Hour))}); err != nil {
		t.Fatalf("second Log failed: %v", err)
	}
	cached, err = db.GetDailyFlow(database, "local", dayKey)
	if err != nil {
		t.Fatalf("GetDailyFlow failed: %v", err)
	}
	if cached != nil {
		t.Error("flow cache survived a new capture on the same day")
	}
}
