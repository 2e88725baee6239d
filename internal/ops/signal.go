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

// SignalOutput contains the result of the Signal operation.
type SignalOutput struct {
	WeekKey string                `json:"week_key"`
	Signal  insights.WeeklySignal `json:"signal"`
}

// Signal computes the current week's mood-signal pattern. Pure
// recompute every call; the weekly signal has no cache row.
func Signal(database *sql.DB, cfg *config.Config) (*SignalOutput, error) {
	now := time.Now()
	r, err := period.Resolve(period.Weekly, now)
	if err != nil {
		return nil, errors.NewValidate(err.Error())
	}

	captures, err := db.ListCaptures(database, userFor(cfg), &r.Start, &r.End)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	signal := insights.ComputeWeeklySignal(capture.FilterEligible(captures), r.Start, now)
	return &SignalOutput{WeekKey: period.WeekKey(now), Signal: signal}, nil
}
