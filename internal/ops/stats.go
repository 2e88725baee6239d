package ops

import (
	"database/sql"
	"time"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
)

// StreakOutput contains the result of the Streak operation.
type StreakOutput struct {
	Streaks insights.Streaks `json:"streaks"`
}

// Streak computes current/longest consecutive-day streaks over the
// whole capture history.
func Streak(database *sql.DB, cfg *config.Config) (*StreakOutput, error) {
	captures, err := db.ListCaptures(database, userFor(cfg), nil, nil)
	if err != nil {
		return nil, errors.NewFetch(err)
	}
	return &StreakOutput{Streaks: insights.ComputeStreaks(captures, time.Now())}, nil
}

// MoodByTimeInput contains parameters for the MoodByTime operation.
type MoodByTimeInput struct {
	From *time.Time // optional range, inclusive; nil means all history
	To   *time.Time
}

// MoodByTimeOutput contains the result of the MoodByTime operation.
type MoodByTimeOutput struct {
	Buckets []insights.DayPartStat `json:"buckets"`
}

// MoodByTime buckets captures into morning/afternoon/evening/night and
// reports each bucket's top mood.
func MoodByTime(database *sql.DB, cfg *config.Config, input MoodByTimeInput) (*MoodByTimeOutput, error) {
	captures, err := db.ListCaptures(database, userFor(cfg), input.From, input.To)
	if err != nil {
		return nil, errors.NewFetch(err)
	}
	return &MoodByTimeOutput{Buckets: insights.ComputeMoodByTime(captures)}, nil
}
