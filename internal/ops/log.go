package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lumahq/luma/internal/capture"
	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/mood"
	"github.com/lumahq/luma/internal/period"
)

// LogInput contains parameters for the Log operation.
type LogInput struct {
	Mood              string  // required: system mood id or custom_<id>
	MoodName          *string // display name snapshot for custom moods
	Note              *string // optional
	ImageRef          string  // optional storage reference
	Tags              []string
	IncludeInInsights *bool      // nil means default-eligible
	At                *time.Time // default: now
}

// LogOutput contains the result of the Log operation.
type LogOutput struct {
	ID        string `json:"id"`
	MoodLabel string `json:"mood_label"`
	MoodColor string `json:"mood_color"`
	DayKey    string `json:"day_key"`
}

// Log records a new capture and invalidates the day's cached mood
// flow.
func Log(database *sql.DB, cfg *config.Config, input LogInput) (*LogOutput, error) {
	raw := strings.TrimSpace(input.Mood)
	if raw == "" {
		return nil, errors.NewValidate("mood is required")
	}
	ref := capture.ParseMoodRef(raw)

	at := time.Now()
	if input.At != nil {
		at = *input.At
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewUnknown(err)
	}

	user := userFor(cfg)
	moodName := ""
	if s := cleanOptionalString(input.MoodName); s != nil {
		moodName = *s
	}
	c := &capture.Capture{
		ID:                id,
		UserID:            &user,
		CreatedAt:         at,
		Mood:              ref,
		MoodName:          moodName,
		Note:              cleanOptionalString(input.Note),
		ImageRef:          strings.TrimSpace(input.ImageRef),
		Tags:              cleanTags(input.Tags),
		IncludeInInsights: input.IncludeInInsights,
	}
	if err := db.InsertCapture(database, c); err != nil {
		return nil, errors.NewFetch(err)
	}

	// The cached flow for this day is stale now.
	dayKey := period.DayKey(at)
	if err := db.DeleteDailyFlow(database, user, dayKey); err != nil {
		return nil, errors.NewFetch(err)
	}

	return &LogOutput{
		ID:        id,
		MoodLabel: mood.ResolveLabel(ref, moodName),
		MoodColor: mood.ResolveColor(ref, moodName),
		DayKey:    dayKey,
	}, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
