package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/insights"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCaptureRoundTrip(t *testing.T) {
	db := testDB(t)

	created := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)
	in := &capture.Capture{
		ID:                "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		UserID:            strPtr("local"),
		CreatedAt:         created,
		Mood:              capture.ParseMoodRef("happy"),
		MoodName:          "Happy",
		Note:              strPtr("good morning"),
		ImageRef:          "img-1",
		Tags:              []string{"work", "coffee"},
		IncludeInInsights: boolPtr(true),
	}
	if err := InsertCapture(db, in); err != nil {
		t.Fatalf("InsertCapture() error = %v", err)
	}

	got, err := GetCapture(db, in.ID)
	if err != nil {
		t.Fatalf("GetCapture() error = %v", err)
	}
	if got.ID != in.ID {
		t.Errorf("ID = %s, want %s", got.ID, in.ID)
	}
	if got.UserID == nil || *got.UserID != "local" {
		t.Errorf("UserID = %v, want local", got.UserID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Mood.Raw() != "happy" {
		t.Errorf("Mood = %s, want happy", got.Mood.Raw())
	}
	if got.Note == nil || *got.Note != "good morning" {
		t.Errorf("Note = %v, want good morning", got.Note)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Errorf("Tags = %v, want [work coffee]", got.Tags)
	}
	if got.IncludeInInsights == nil || !*got.IncludeInInsights {
		t.Errorf("IncludeInInsights = %v, want true", got.IncludeInInsights)
	}
}

func TestCaptureNilInclude(t *testing.T) {
	db := testDB(t)

	// nil IncludeInInsights (the unset default) must survive storage
	// distinct from explicit true.
	in := &capture.Capture{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FA0",
		UserID:    strPtr("local"),
		CreatedAt: time.Now(),
		Mood:      capture.ParseMoodRef("calm"),
	}
	if err := InsertCapture(db, in); err != nil {
		t.Fatalf("InsertCapture() error = %v", err)
	}

	got, err := GetCapture(db, in.ID)
	if err != nil {
		t.Fatalf("GetCapture() error = %v", err)
	}
	if got.IncludeInInsights != nil {
		t.Errorf("IncludeInInsights = %v, want nil", *got.IncludeInInsights)
	}
	if got.Note != nil {
		t.Errorf("Note = %v, want nil", *got.Note)
	}
	if got.Tags != nil {
		t.Errorf("Tags = %v, want nil", got.Tags)
	}
}

func TestCaptureCustomMoodStoredRaw(t *testing.T) {
	db := testDB(t)

	in := &capture.Capture{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FA1",
		UserID:    strPtr("local"),
		CreatedAt: time.Now(),
		Mood:      capture.ParseMoodRef("custom_abc123"),
		MoodName:  "Cozy",
	}
	if err := InsertCapture(db, in); err != nil {
		t.Fatalf("InsertCapture() error = %v", err)
	}

	got, err := GetCapture(db, in.ID)
	if err != nil {
		t.Fatalf("GetCapture() error = %v", err)
	}
	if got.Mood.Kind != capture.MoodCustom {
		t.Errorf("Mood.Kind = %s, want custom", got.Mood.Kind)
	}
	if got.Mood.Raw() != "custom_abc123" {
		t.Errorf("Mood.Raw() = %s, want custom_abc123", got.Mood.Raw())
	}
	if got.MoodName != "Cozy" {
		t.Errorf("MoodName = %s, want Cozy", got.MoodName)
	}
}

func TestGetCapture_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := GetCapture(db, "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCapture() error = %v, want ErrNotFound", err)
	}
}

func TestListCaptures_RangeInclusive(t *testing.T) {
	db := testDB(t)

	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	times := []time.Time{
		base.Add(-time.Second), // before range
		base,                   // range start, inclusive
		base.Add(12 * time.Hour),
		base.Add(24*time.Hour - time.Second), // range end, inclusive
		base.Add(24 * time.Hour),             // after range
	}
	for i, ts := range times {
		c := &capture.Capture{
			ID:        "01ARZ3NDEKTSV4RRFFQ69G5FB" + string(rune('0'+i)),
			UserID:    strPtr("local"),
			CreatedAt: ts,
			Mood:      capture.ParseMoodRef("happy"),
		}
		if err := InsertCapture(db, c); err != nil {
			t.Fatalf("InsertCapture() error = %v", err)
		}
	}

	from := base
	to := base.Add(24*time.Hour - time.Second)
	got, err := ListCaptures(db, "local", &from, &to)
	if err != nil {
		t.Fatalf("ListCaptures() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Ascending by creation time.
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Errorf("captures not in ascending order at %d", i)
		}
	}

	count, err := CountCaptures(db, "local", &from, &to)
	if err != nil {
		t.Fatalf("CountCaptures() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountCaptures = %d, want 3", count)
	}
}

func TestDeleteCapture_Cascades(t *testing.T) {
	db := testDB(t)

	c := &capture.Capture{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FC0",
		UserID:    strPtr("local"),
		CreatedAt: time.Now(),
		Mood:      capture.ParseMoodRef("happy"),
	}
	if err := InsertCapture(db, c); err != nil {
		t.Fatalf("InsertCapture() error = %v", err)
	}
	album := &Album{ID: "01ARZ3NDEKTSV4RRFFQ69G5FD0", UserID: strPtr("local"), Name: "Spring", CreatedAt: time.Now()}
	if err := InsertAlbum(db, album); err != nil {
		t.Fatalf("InsertAlbum() error = %v", err)
	}
	if err := AddCaptureToAlbum(db, album.ID, c.ID, time.Now()); err != nil {
		t.Fatalf("AddCaptureToAlbum() error = %v", err)
	}

	if err := DeleteCapture(db, c.ID); err != nil {
		t.Fatalf("DeleteCapture() error = %v", err)
	}

	if _, err := GetCapture(db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCapture() after delete error = %v, want ErrNotFound", err)
	}
	members, err := ListAlbumCaptures(db, album.ID)
	if err != nil {
		t.Fatalf("ListAlbumCaptures() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("album still has %d captures after delete, want 0", len(members))
	}

	// Deleting again reports not found.
	if err := DeleteCapture(db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteCapture() error = %v, want ErrNotFound", err)
	}
}

func TestAlbums(t *testing.T) {
	db := testDB(t)

	a := &Album{ID: "01ARZ3NDEKTSV4RRFFQ69G5FE0", UserID: strPtr("local"), Name: "Trip", CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)}
	if err := InsertAlbum(db, a); err != nil {
		t.Fatalf("InsertAlbum() error = %v", err)
	}

	got, err := GetAlbum(db, a.ID)
	if err != nil {
		t.Fatalf("GetAlbum() error = %v", err)
	}
	if got.Name != "Trip" {
		t.Errorf("Name = %s, want Trip", got.Name)
	}

	list, err := ListAlbums(db, "local")
	if err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	// Membership is idempotent.
	c := &capture.Capture{ID: "01ARZ3NDEKTSV4RRFFQ69G5FE1", UserID: strPtr("local"), CreatedAt: time.Now(), Mood: capture.ParseMoodRef("happy")}
	if err := InsertCapture(db, c); err != nil {
		t.Fatalf("InsertCapture() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := AddCaptureToAlbum(db, a.ID, c.ID, time.Now()); err != nil {
			t.Fatalf("AddCaptureToAlbum() error = %v", err)
		}
	}
	members, err := ListAlbumCaptures(db, a.ID)
	if err != nil {
		t.Fatalf("ListAlbumCaptures() error = %v", err)
	}
	if len(members) != 1 {
		t.Errorf("len = %d, want 1", len(members))
	}
}

func TestSnapshotUpsert(t *testing.T) {
	db := testDB(t)

	// Miss is nil, nil rather than an error.
	got, err := GetSnapshot(db, "local", "weekly", "2025-W11")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got != nil {
		t.Fatalf("GetSnapshot() on empty db = %+v, want nil", got)
	}

	snap := &insights.Snapshot{
		GeneratedAt: time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local),
		PeriodStart: time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local),
		PeriodEnd:   time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local),
		PeriodKey:   "2025-W11",
		IncludedIDs: []string{"a", "b"},
		Narrative:   "A steady week.",
		RequestID:   "req-1",
	}
	if err := PutSnapshot(db, "01ARZ3NDEKTSV4RRFFQ69G5FF0", "local", "weekly", snap); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	got, err = GetSnapshot(db, "local", "weekly", "2025-W11")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetSnapshot() = nil after put")
	}
	if got.Narrative != "A steady week." {
		t.Errorf("Narrative = %q", got.Narrative)
	}
	if len(got.IncludedIDs) != 2 {
		t.Errorf("IncludedIDs = %v, want 2 ids", got.IncludedIDs)
	}

	// Second put for the same period replaces, not duplicates.
	snap.IncludedIDs = []string{"a", "b", "c"}
	snap.Narrative = "A fuller week."
	if err := PutSnapshot(db, "01ARZ3NDEKTSV4RRFFQ69G5FF1", "local", "weekly", snap); err != nil {
		t.Fatalf("second PutSnapshot() error = %v", err)
	}
	got, err = GetSnapshot(db, "local", "weekly", "2025-W11")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if len(got.IncludedIDs) != 3 || got.Narrative != "A fuller week." {
		t.Errorf("snapshot not replaced: ids=%v narrative=%q", got.IncludedIDs, got.Narrative)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM insight_snapshots").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("snapshot rows = %d, want 1", n)
	}
}

func TestGetSnapshots_MultiKind(t *testing.T) {
	db := testDB(t)

	daily := &insights.Snapshot{GeneratedAt: time.Now(), PeriodStart: time.Now(), PeriodEnd: time.Now(), PeriodKey: "2025-03-12", IncludedIDs: []string{"x"}, Narrative: "Day."}
	if err := PutSnapshot(db, "01ARZ3NDEKTSV4RRFFQ69G5FG0", "local", "daily", daily); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	out, err := GetSnapshots(db, "local", map[string]string{
		"daily":  "2025-03-12",
		"weekly": "2025-W11",
	})
	if err != nil {
		t.Fatalf("GetSnapshots() error = %v", err)
	}
	if out["daily"] == nil {
		t.Error("daily snapshot missing")
	}
	if out["weekly"] != nil {
		t.Error("weekly snapshot should be nil (no row)")
	}
}

func TestDailyFlowCache(t *testing.T) {
	db := testDB(t)

	// Miss is nil, nil.
	got, err := GetDailyFlow(db, "local", "2025-03-12")
	if err != nil {
		t.Fatalf("GetDailyFlow() error = %v", err)
	}
	if got != nil {
		t.Fatalf("GetDailyFlow() on empty db = %+v, want nil", got)
	}

	flow := &insights.DailyFlow{
		Segments: []insights.FlowSegment{
			{TimePercent: 35.5, Mood: "Happy", Color: "#f59e0b", Intensity: 0.8},
		},
		Dominant:      "Happy",
		TotalCaptures: 1,
	}
	if err := PutDailyFlow(db, "local", "2025-03-12", flow, time.Now()); err != nil {
		t.Fatalf("PutDailyFlow() error = %v", err)
	}

	got, err = GetDailyFlow(db, "local", "2025-03-12")
	if err != nil {
		t.Fatalf("GetDailyFlow() error = %v", err)
	}
	if got == nil || got.Dominant != "Happy" || len(got.Segments) != 1 {
		t.Errorf("cached flow = %+v", got)
	}

	if err := DeleteDailyFlow(db, "local", "2025-03-12"); err != nil {
		t.Fatalf("DeleteDailyFlow() error = %v", err)
	}
	got, err = GetDailyFlow(db, "local", "2025-03-12")
	if err != nil {
		t.Fatalf("GetDailyFlow() error = %v", err)
	}
	if got != nil {
		t.Error("flow still cached after delete")
	}
}

func TestMonthlySummaryUpsert(t *testing.T) {
	db := testDB(t)

	got, err := GetMonthlySummary(db, "local", "2025-03")
	if err != nil {
		t.Fatalf("GetMonthlySummary() error = %v", err)
	}
	if got != nil {
		t.Fatalf("GetMonthlySummary() on empty db = %+v, want nil", got)
	}

	s := &insights.MonthlySummary{
		MonthKey:      "2025-03",
		Phrase:        strPtr("Finding balance"),
		Reasoning:     strPtr("Calm mornings outweighed stressful afternoons."),
		TotalCaptures: 12,
		GeneratedAt:   time.Date(2025, 3, 20, 8, 0, 0, 0, time.Local),
	}
	if err := PutMonthlySummary(db, "local", s); err != nil {
		t.Fatalf("PutMonthlySummary() error = %v", err)
	}

	got, err = GetMonthlySummary(db, "local", "2025-03")
	if err != nil {
		t.Fatalf("GetMonthlySummary() error = %v", err)
	}
	if got == nil || got.Phrase == nil || *got.Phrase != "Finding balance" {
		t.Errorf("summary = %+v", got)
	}

	// Regeneration overwrites in place; a cleared phrase stays nil.
	s.Phrase = nil
	s.Reasoning = nil
	s.TotalCaptures = 25
	if err := PutMonthlySummary(db, "local", s); err != nil {
		t.Fatalf("second PutMonthlySummary() error = %v", err)
	}
	got, err = GetMonthlySummary(db, "local", "2025-03")
	if err != nil {
		t.Fatalf("GetMonthlySummary() error = %v", err)
	}
	if got.Phrase != nil || got.TotalCaptures != 25 {
		t.Errorf("summary not replaced: %+v", got)
	}
}
