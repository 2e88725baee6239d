package ops

import (
	"database/sql"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/mood"
	"github.com/lumahq/luma/internal/period"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Kind  *period.Kind // optional: limit to the current daily/weekly/monthly window
	From  *time.Time   // optional explicit range, inclusive
	To    *time.Time
	Limit int // default: 50, max: 500
}

// CaptureView is a capture with its mood resolved for display.
type CaptureView struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MoodLabel string    `json:"mood_label"`
	MoodColor string    `json:"mood_color"`
	Note      *string   `json:"note,omitempty"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Eligible  bool      `json:"eligible"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []CaptureView `json:"items"`
	Total int           `json:"total"`
}

// List retrieves captures, newest last, optionally windowed.
func List(database *sql.DB, cfg *config.Config, input ListInput) (*ListOutput, error) {
	from, to := input.From, input.To
	if input.Kind != nil {
		r, err := period.Resolve(*input.Kind, time.Now())
		if err != nil {
			return nil, errors.NewValidate(err.Error())
		}
		from, to = &r.Start, &r.End
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	captures, err := db.ListCaptures(database, userFor(cfg), from, to)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	total := len(captures)
	if len(captures) > limit {
		// Keep the most recent window of the ascending list.
		captures = captures[len(captures)-limit:]
	}

	items := make([]CaptureView, 0, len(captures))
	for _, c := range captures {
		items = append(items, viewOf(c))
	}
	return &ListOutput{Items: items, Total: total}, nil
}

func viewOf(c capture.Capture) CaptureView {
	return CaptureView{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		MoodLabel: mood.ResolveLabel(c.Mood, c.MoodName),
		MoodColor: mood.ResolveColor(c.Mood, c.MoodName),
		Note:      c.Note,
		ImageRef:  c.ImageRef,
		Tags:      c.Tags,
		Eligible:  capture.Eligible(c),
	}
}
