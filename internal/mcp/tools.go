package mcp

import "github.com/mark3labs/mcp-go/mcp"

var logToolDef = mcp.NewTool("capture_log",
	mcp.WithDescription("Record a mood capture. Mood is a system mood id (e.g. happy, calm) or custom_<id> with mood_name as its display label."),
	mcp.WithString("mood", mcp.Required(), mcp.Description("System mood id or custom_<id>")),
	mcp.WithString("mood_name", mcp.Description("Display name for a custom mood")),
	mcp.WithString("note", mcp.Description("Optional note text")),
	mcp.WithString("image_ref", mcp.Description("Optional storage reference for a photo")),
	mcp.WithArray("tags", mcp.Description("Optional tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithBoolean("include_in_insights", mcp.Description("Set false to exclude this capture from insights; omit for the default (included)")),
	mcp.WithString("at", mcp.Description("RFC 3339 timestamp; omit for now")),
)

var listToolDef = mcp.NewTool("capture_list",
	mcp.WithDescription("List captures with resolved mood labels and colors, oldest first."),
	mcp.WithString("kind", mcp.Description("Limit to the current window: daily, weekly, or monthly")),
	mcp.WithNumber("limit", mcp.Description("Max captures to return (default 50, max 500); keeps the newest")),
)

var deleteToolDef = mcp.NewTool("capture_delete",
	mcp.WithDescription("Hard-delete a capture, its album memberships, and the affected day's cached flow."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Capture ID")),
)

var pendingToolDef = mcp.NewTool("insight_pending",
	mcp.WithDescription("Report per-kind how many eligible captures are not yet represented in the cached insight snapshot."),
)

var generateToolDef = mcp.NewTool("insight_generate",
	mcp.WithDescription("Generate (or refresh) the insight for one scope. Daily/weekly produce a narrative; monthly produces the month phrase; album summarizes one album."),
	mcp.WithString("kind", mcp.Required(), mcp.Description("daily, weekly, monthly, or album")),
	mcp.WithString("album_id", mcp.Description("Album ID, required when kind is album")),
	mcp.WithBoolean("force", mcp.Description("Monthly only: bypass the regeneration gate")),
)

var flowToolDef = mcp.NewTool("mood_flow",
	mcp.WithDescription("Return the day's mood flow (time-weighted segments plus dominant mood), cache-aside."),
	mcp.WithString("day", mcp.Description("Local day key 2006-01-02; omit for today")),
)

var signalToolDef = mcp.NewTool("mood_signal",
	mcp.WithDescription("Compute the current week's mood-signal pattern (time-linked, day-clustering, mood-drift, or none)."),
)

var streakToolDef = mcp.NewTool("mood_streak",
	mcp.WithDescription("Report current and longest consecutive-day capture streaks."),
)

var moodByTimeToolDef = mcp.NewTool("mood_by_time",
	mcp.WithDescription("Bucket captures into morning/afternoon/evening/night with each bucket's top mood."),
)

var albumCreateToolDef = mcp.NewTool("album_create",
	mcp.WithDescription("Create a new empty album."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Album name")),
)

var albumAddToolDef = mcp.NewTool("album_add",
	mcp.WithDescription("Add a capture to an album. Re-adding is a no-op."),
	mcp.WithString("album_id", mcp.Required(), mcp.Description("Album ID")),
	mcp.WithString("capture_id", mcp.Required(), mcp.Description("Capture ID")),
)

var albumListToolDef = mcp.NewTool("album_list",
	mcp.WithDescription("List albums with member counts."),
)

var albumShowToolDef = mcp.NewTool("album_show",
	mcp.WithDescription("Show one album and its captures, resolved for display."),
	mcp.WithString("album_id", mcp.Required(), mcp.Description("Album ID")),
)
