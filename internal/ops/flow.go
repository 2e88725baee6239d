package ops

import (
	"database/sql"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/period"
)

// FlowInput contains parameters for the Flow operation.
type FlowInput struct {
	// Day is a local day key ("2006-01-02"); empty means today.
	Day string
}

// FlowOutput contains the result of the Flow operation.
type FlowOutput struct {
	DayKey    string             `json:"day_key"`
	Flow      insights.DailyFlow `json:"flow"`
	FromCache bool               `json:"from_cache"`
}

// Flow returns the day's mood flow, cache-aside: serve the cached row
// when present, otherwise recompute from captures and store it. The
// cache is never a correctness dependency; Log and Delete invalidate
// it.
func Flow(database *sql.DB, cfg *config.Config, input FlowInput) (*FlowOutput, error) {
	now := time.Now()
	dayKey := input.Day
	if dayKey == "" {
		dayKey = period.DayKey(now)
	}
	day, err := time.ParseInLocation("2006-01-02", dayKey, time.Local)
	if err != nil {
		return nil, errors.NewValidate("day must look like 2006-01-02")
	}

	user := userFor(cfg)
	if cached, err := db.GetDailyFlow(database, user, dayKey); err != nil {
		return nil, errors.NewFetch(err)
	} else if cached != nil {
		return &FlowOutput{DayKey: dayKey, Flow: *cached, FromCache: true}, nil
	}

	dayEnd := day.AddDate(0, 0, 1).Add(-time.Second)
	captures, err := db.ListCaptures(database, user, &day, &dayEnd)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	flow := insights.ComputeDailyFlow(capture.ForDay(captures, dayKey))
	if err := db.PutDailyFlow(database, user, dayKey, &flow, now); err != nil {
		return nil, errors.NewFetch(err)
	}
	return &FlowOutput{DayKey: dayKey, Flow: flow, FromCache: false}, nil
}
