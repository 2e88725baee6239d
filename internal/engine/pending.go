package engine

import (
	"time"

	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/period"
)

// Pending reports, per kind, how many eligible captures are not yet
// represented in the cached snapshot. This is the staleness oracle
// behind the "N new moments" badge.
func (e *Engine) Pending() (map[period.Kind]insights.PendingInfo, error) {
	now := e.now()

	// One capture load covers all three windows.
	from := earliestWindowStart(now)
	captures, err := db.ListCaptures(e.db, e.user(), &from, &now)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	keys := make(map[string]string, len(period.Kinds))
	for _, kind := range period.Kinds {
		key, err := period.Key(kind, now)
		if err != nil {
			return nil, errors.From(err)
		}
		keys[string(kind)] = key
	}
	rows, err := db.GetSnapshots(e.db, e.user(), keys)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	snapshots := make(map[period.Kind]*insights.Snapshot, len(rows))
	for kind, snap := range rows {
		snapshots[period.Kind(kind)] = snap
	}
	return insights.ComputePending(captures, snapshots, now), nil
}

// PendingForAlbum is the album-scope staleness check: the whole album
// membership diffed against its snapshot, no time window.
func (e *Engine) PendingForAlbum(albumID string) (insights.PendingInfo, error) {
	members, err := db.ListAlbumCaptures(e.db, albumID)
	if err != nil {
		return insights.PendingInfo{}, errors.NewFetch(err)
	}
	snap, err := db.GetSnapshot(e.db, e.user(), "album", albumID)
	if err != nil {
		return insights.PendingInfo{}, errors.NewFetch(err)
	}
	return insights.ComputePendingForSet(members, snap), nil
}

func earliestWindowStart(now time.Time) time.Time {
	from := period.StartOfMonth(now)
	if ws := period.StartOfWeek(now); ws.Before(from) {
		from = ws
	}
	return from
}
