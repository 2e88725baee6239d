package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lumahq/luma/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capture_log": {
		def:     logToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLog },
	},
	"capture_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"capture_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"insight_pending": {
		def:     pendingToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePending },
	},
	"insight_generate": {
		def:     generateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"mood_flow": {
		def:     flowToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFlow },
	},
	"mood_signal": {
		def:     signalToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSignal },
	},
	"mood_streak": {
		def:     streakToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStreak },
	},
	"mood_by_time": {
		def:     moodByTimeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMoodByTime },
	},
	"album_create": {
		def:     albumCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAlbumCreate },
	},
	"album_add": {
		def:     albumAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAlbumAdd },
	},
	"album_list": {
		def:     albumListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAlbumList },
	},
	"album_show": {
		def:     albumShowToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAlbumShow },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with luma tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"luma",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}
