package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/insights"
)

// GetSnapshot reads the cached summary for (user, kind, periodKey).
// A cache miss is normal and returns (nil, nil).
func GetSnapshot(db *sql.DB, user, kind, periodKey string) (*insights.Snapshot, error) {
	query := `
		SELECT period_start, period_end, generated_at,
			included_ids_json, narrative, request_id
		FROM insight_snapshots
		WHERE user_id = ? AND kind = ? AND period_key = ?
	`
	var (
		periodStart, periodEnd, generatedAt int64
		includedJSON, narrative             string
		requestID                           sql.NullString
	)
	err := db.QueryRow(query, user, kind, periodKey).Scan(
		&periodStart, &periodEnd, &generatedAt, &includedJSON, &narrative, &requestID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	snap := &insights.Snapshot{
		GeneratedAt: time.Unix(generatedAt, 0),
		PeriodStart: time.Unix(periodStart, 0),
		PeriodEnd:   time.Unix(periodEnd, 0),
		PeriodKey:   periodKey,
		Narrative:   narrative,
	}
	if requestID.Valid {
		snap.RequestID = requestID.String
	}
	if err := json.Unmarshal([]byte(includedJSON), &snap.IncludedIDs); err != nil {
		return nil, fmt.Errorf("decode included ids: %w", err)
	}
	return snap, nil
}

// PutSnapshot upserts the cached summary for (user, kind, periodKey).
// Last write wins per key; included IDs and narrative land in one
// statement so the row is never partially written.
func PutSnapshot(db *sql.DB, id, user, kind string, snap *insights.Snapshot) error {
	includedJSON, err := json.Marshal(snap.IncludedIDs)
	if err != nil {
		return fmt.Errorf("encode included ids: %w", err)
	}

	var requestID sql.NullString
	if snap.RequestID != "" {
		requestID = sql.NullString{String: snap.RequestID, Valid: true}
	}

	query := `
		INSERT INTO insight_snapshots (
			id, user_id, kind, period_key, period_start, period_end,
			generated_at, included_ids_json, narrative, request_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, kind, period_key) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			generated_at = excluded.generated_at,
			included_ids_json = excluded.included_ids_json,
			narrative = excluded.narrative,
			request_id = excluded.request_id
	`
	_, err = db.Exec(query,
		id, user, kind, snap.PeriodKey,
		snap.PeriodStart.Unix(), snap.PeriodEnd.Unix(), snap.GeneratedAt.Unix(),
		string(includedJSON), snap.Narrative, requestID,
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetSnapshots reads the most recent snapshot per kind for the given
// period keys (kind → current period key).
func GetSnapshots(db *sql.DB, user string, keys map[string]string) (map[string]*insights.Snapshot, error) {
	out := make(map[string]*insights.Snapshot, len(keys))
	for kind, periodKey := range keys {
		snap, err := GetSnapshot(db, user, kind, periodKey)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			out[kind] = snap
		}
	}
	return out, nil
}
