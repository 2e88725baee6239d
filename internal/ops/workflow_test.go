package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/period"
)

// TestFullWorkflow exercises the capture lifecycle end to end:
// log → list → flow → signal → album → delete → recheck.
func TestFullWorkflow(t *testing.T) {
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	cfg := testCfg()

	// 1. Log captures across a morning and an evening.
	morning := time.Date(2025, 3, 12, 8, 30, 0, 0, time.Local)
	evening := time.Date(2025, 3, 12, 19, 0, 0, 0, time.Local)

	first, err := Log(database, cfg, LogInput{Mood: "happy", Note: stringPtr("coffee on the porch"), At: timePtr(morning)})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Equal(t, "Happy", first.MoodLabel)

	second, err := Log(database, cfg, LogInput{Mood: "custom_xyz", MoodName: stringPtr("Cozy"), At: timePtr(evening)})
	require.NoError(t, err)
	require.Equal(t, "Cozy", second.MoodLabel)

	// 2. List resolves both for display.
	listOut, err := List(database, cfg, ListInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 2)

	// 3. Flow computes, then caches.
	dayKey := period.DayKey(morning)
	flowOut, err := Flow(database, cfg, FlowInput{Day: dayKey})
	require.NoError(t, err)
	require.False(t, flowOut.FromCache)
	require.Len(t, flowOut.Flow.Segments, 2)

	flowOut, err = Flow(database, cfg, FlowInput{Day: dayKey})
	require.NoError(t, err)
	require.True(t, flowOut.FromCache)

	// 4. Weekly signal runs (sparse week: gated message, no pattern).
	sigOut, err := Signal(database, cfg)
	require.NoError(t, err)
	require.Equal(t, 0, sigOut.Signal.TotalCaptures) // 2025-03-12 is not in the current week

	// 5. Album lifecycle.
	album, err := AlbumCreate(database, cfg, AlbumCreateInput{Name: "Quiet Days"})
	require.NoError(t, err)
	_, err = AlbumAdd(database, cfg, AlbumAddInput{AlbumID: album.ID, CaptureID: first.ID})
	require.NoError(t, err)

	showOut, err := AlbumShow(database, cfg, AlbumShowInput{AlbumID: album.ID})
	require.NoError(t, err)
	require.Equal(t, 1, showOut.Album.Captures)

	// 6. Delete cascades membership and invalidates the day's flow.
	delOut, err := Delete(database, cfg, DeleteInput{ID: first.ID})
	require.NoError(t, err)
	require.True(t, delOut.Deleted)

	showOut, err = AlbumShow(database, cfg, AlbumShowInput{AlbumID: album.ID})
	require.NoError(t, err)
	require.Equal(t, 0, showOut.Album.Captures)

	flowOut, err = Flow(database, cfg, FlowInput{Day: dayKey})
	require.NoError(t, err)
	require.False(t, flowOut.FromCache)
	require.Len(t, flowOut.Flow.Segments, 1)
}
