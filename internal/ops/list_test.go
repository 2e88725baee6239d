package ops

import (
	"testing"
	"time"

	"github.com/lumahq/luma/internal/period"
)

func TestList_HappyPath(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	for _, m := range []string{"happy", "calm", "tired"} {
		if _, err := Log(database, cfg, LogInput{Mood: m}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	out, err := List(database, cfg, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(out.Items))
	}
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
	for _, item := range out.Items {
		if item.MoodLabel == "" || item.MoodColor == "" {
			t.Errorf("item %s missing resolved mood: %+v", item.ID, item)
		}
		if !item.Eligible {
			t.Errorf("item %s not eligible by default", item.ID)
		}
	}
}

func TestList_KindWindow(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	// One capture now, one well before today's window.
	if _, err := Log(database, cfg, LogInput{Mood: "happy"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	old := time.Now().AddDate(0, 0, -10)
	if _, err := Log(database, cfg, LogInput{Mood: "calm", At: timePtr(old)}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	kind := period.Daily
	out, err := List(database, cfg, ListInput{Kind: &kind})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 {
		t.Errorf("daily window items = %d, want 1", len(out.Items))
	}
}

func TestList_LimitKeepsNewest(t *testing.T) {
	database := testDB(t)
	cfg := testCfg()

	base := time.Date(2025, 3, 12, 8, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		if _, err := Log(database, cfg, LogInput{Mood: "happy", At: timePtr(base.Add(time.Duration(i) * time.Hour))}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	out, err := List(database, cfg, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	if out.Total != 5 {
		t.Errorf("Total = %d, want 5", out.Total)
	}
	if !out.Items[0].CreatedAt.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("limit did not keep the newest captures: first = %v", out.Items[0].CreatedAt)
	}
}
