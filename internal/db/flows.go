package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/insights"
)

// GetDailyFlow returns the cached flow for a day, or nil when no row
// exists. A cache miss is not an error.
func GetDailyFlow(db *sql.DB, user, dayKey string) (*insights.DailyFlow, error) {
	var (
		flowJSON   string
		computedAt int64
	)
	err := db.QueryRow(
		"SELECT flow_json, computed_at FROM daily_flows WHERE user_id = ? AND day_key = ?",
		user, dayKey,
	).Scan(&flowJSON, &computedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily flow: %w", err)
	}

	var flow insights.DailyFlow
	if err := json.Unmarshal([]byte(flowJSON), &flow); err != nil {
		return nil, fmt.Errorf("decode daily flow: %w", err)
	}
	return &flow, nil
}

// PutDailyFlow stores or replaces the cached flow for a day.
func PutDailyFlow(db *sql.DB, user, dayKey string, flow *insights.DailyFlow, at time.Time) error {
	flowJSON, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("encode daily flow: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO daily_flows (user_id, day_key, flow_json, computed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day_key) DO UPDATE SET
			flow_json = excluded.flow_json,
			computed_at = excluded.computed_at
	`, user, dayKey, string(flowJSON), at.Unix())
	if err != nil {
		return fmt.Errorf("put daily flow: %w", err)
	}
	return nil
}

// DeleteDailyFlow invalidates the cached flow for a day. Missing rows
// are ignored.
func DeleteDailyFlow(db *sql.DB, user, dayKey string) error {
	_, err := db.Exec(
		"DELETE FROM daily_flows WHERE user_id = ? AND day_key = ?",
		user, dayKey,
	)
	if err != nil {
		return fmt.Errorf("delete daily flow: %w", err)
	}
	return nil
}
