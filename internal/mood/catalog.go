package mood

// Entry is one mood definition in the built-in catalog.
type Entry struct {
	// Name is the canonical display label
	Name string

	// Color is the fixed hex color used everywhere this mood renders
	Color string
}

// NeutralColor is the final color fallback when nothing better can be
// derived.
const NeutralColor = "#9ca3af"

// catalog maps system mood identifiers to their definitions. Custom
// moods never appear here; their display data lives in the per-capture
// name snapshot.
var catalog = map[string]Entry{
	"happy":    {Name: "Happy", Color: "#f59e0b"},
	"calm":     {Name: "Calm", Color: "#38bdf8"},
	"excited":  {Name: "Excited", Color: "#f472b6"},
	"grateful": {Name: "Grateful", Color: "#a78bfa"},
	"content":  {Name: "Content", Color: "#4ade80"},
	"tired":    {Name: "Tired", Color: "#94a3b8"},
	"sad":      {Name: "Sad", Color: "#60a5fa"},
	"anxious":  {Name: "Anxious", Color: "#fb923c"},
	"stressed": {Name: "Stressed", Color: "#f87171"},
	"angry":    {Name: "Angry", Color: "#ef4444"},
	"bored":    {Name: "Bored", Color: "#9ca3af"},
	"loved":    {Name: "Loved", Color: "#fb7185"},
}

// Lookup returns the catalog entry for a system mood identifier.
func Lookup(id string) (Entry, bool) {
	e, ok := catalog[id]
	return e, ok
}
