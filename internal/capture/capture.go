package capture

import (
	"strings"
	"time"
)

// customMoodPrefix is the namespace prefix raw identifiers of
// user-defined moods carry on the wire and in storage.
const customMoodPrefix = "custom_"

// MoodKind discriminates catalog moods from user-defined ones.
type MoodKind string

const (
	MoodSystem MoodKind = "system"
	MoodCustom MoodKind = "custom"
)

// MoodRef is a parsed mood identifier. Raw identifiers (including the
// custom_ namespace prefix) are parsed exactly once, at the boundary
// where they enter the system; downstream code switches on Kind and
// never re-parses the string convention.
type MoodRef struct {
	// Kind is system or custom
	Kind MoodKind

	// ID is the catalog identifier for system moods, or the bare
	// identifier (prefix stripped) for custom moods
	ID string
}

// ParseMoodRef parses a raw mood identifier into a tagged MoodRef.
func ParseMoodRef(raw string) MoodRef {
	raw = strings.TrimSpace(raw)
	if bare, ok := strings.CutPrefix(raw, customMoodPrefix); ok {
		return MoodRef{Kind: MoodCustom, ID: bare}
	}
	return MoodRef{Kind: MoodSystem, ID: raw}
}

// Raw returns the storage form of the reference, restoring the
// namespace prefix for custom moods.
func (m MoodRef) Raw() string {
	if m.Kind == MoodCustom {
		return customMoodPrefix + m.ID
	}
	return m.ID
}

// IsZero reports whether the reference carries no identifier at all.
func (m MoodRef) IsZero() bool {
	return m.ID == ""
}

// LooksLikeRawMoodID reports whether s looks like a raw custom-mood
// identifier rather than display text. Used by label resolution to
// refuse showing internal IDs to the user.
func LooksLikeRawMoodID(s string) bool {
	return strings.HasPrefix(s, customMoodPrefix)
}

// Capture is one logged moment. Immutable once created, except for
// hard deletion; CreatedAt is the source of all windowing.
type Capture struct {
	// ID is a ULID that uniquely identifies this capture
	ID string

	// UserID references the owning user (nil for local-only/guest data)
	UserID *string

	// CreatedAt is the creation instant, in the user's local zone
	CreatedAt time.Time

	// Mood is the parsed mood reference
	Mood MoodRef

	// MoodName is the display-name snapshot taken at creation time, so
	// historical display never depends on a mood definition that may
	// later be renamed or deleted
	MoodName string

	// Note is optional free text (nullable)
	Note *string

	// ImageRef points at the stored photo (opaque to this core)
	ImageRef string

	// Tags is a list of free-form tags (stored as JSON in DB)
	Tags []string

	// IncludeInInsights is the aggregation opt-out switch. nil means
	// the default (included); explicit false is the only opt-out.
	IncludeInInsights *bool
}

// Eligible reports whether the capture participates in insight
// aggregation.
func Eligible(c Capture) bool {
	return c.IncludeInInsights == nil || *c.IncludeInInsights
}
