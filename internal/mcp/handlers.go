package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/engine"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/ops"
	"github.com/lumahq/luma/internal/period"
	"github.com/lumahq/luma/internal/summarizer"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config

	// The engine is built on first insight_generate call so the other
	// tools work without a summarizer API key configured.
	engOnce sync.Once
	eng     *engine.Engine
	engErr  error
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

func (h *Handlers) engine() (*engine.Engine, error) {
	h.engOnce.Do(func() {
		sum, err := summarizer.NewOpenAI(h.cfg)
		if err != nil {
			h.engErr = err
			return
		}
		h.eng = engine.New(h.db, sum, h.cfg)
	})
	return h.eng, h.engErr
}

// Request types for each tool

// LogRequest represents the arguments for capture_log.
type LogRequest struct {
	Mood              string   `json:"mood"`
	MoodName          *string  `json:"mood_name,omitempty"`
	Note              *string  `json:"note,omitempty"`
	ImageRef          string   `json:"image_ref,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	IncludeInInsights *bool    `json:"include_in_insights,omitempty"`
	At                string   `json:"at,omitempty"`
}

// ListRequest represents the arguments for capture_list.
type ListRequest struct {
	Kind  string `json:"kind,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// DeleteRequest represents the arguments for capture_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// GenerateRequest represents the arguments for insight_generate.
type GenerateRequest struct {
	Kind    string `json:"kind"`
	AlbumID string `json:"album_id,omitempty"`
	Force   bool   `json:"force,omitempty"`
}

// FlowRequest represents the arguments for mood_flow.
type FlowRequest struct {
	Day string `json:"day,omitempty"`
}

// AlbumCreateRequest represents the arguments for album_create.
type AlbumCreateRequest struct {
	Name string `json:"name"`
}

// AlbumAddRequest represents the arguments for album_add.
type AlbumAddRequest struct {
	AlbumID   string `json:"album_id"`
	CaptureID string `json:"capture_id"`
}

// AlbumShowRequest represents the arguments for album_show.
type AlbumShowRequest struct {
	AlbumID string `json:"album_id"`
}

// Handler implementations

// HandleLog handles the capture_log tool call.
func (h *Handlers) HandleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	var at *time.Time
	if input.At != "" {
		parsed, err := time.Parse(time.RFC3339, input.At)
		if err != nil {
			return errorResult(errors.NewValidate("at must be RFC 3339")), nil
		}
		local := parsed.In(time.Local)
		at = &local
	}

	result, err := ops.Log(h.db, h.cfg, ops.LogInput{
		Mood:              input.Mood,
		MoodName:          input.MoodName,
		Note:              input.Note,
		ImageRef:          input.ImageRef,
		Tags:              input.Tags,
		IncludeInInsights: input.IncludeInInsights,
		At:                at,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the capture_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	listInput := ops.ListInput{Limit: input.Limit}
	if input.Kind != "" {
		kind, err := parseKind(input.Kind)
		if err != nil {
			return errorResult(err), nil
		}
		listInput.Kind = &kind
	}

	result, err := ops.List(h.db, h.cfg, listInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the capture_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	result, err := ops.Delete(h.db, h.cfg, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePending handles the insight_pending tool call.
func (h *Handlers) HandlePending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng := engine.New(h.db, nil, h.cfg)
	pending, err := eng.Pending()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(pending)
}

// HandleGenerate handles the insight_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}

	switch input.Kind {
	case "daily", "weekly":
		kind, _ := parseKind(input.Kind)
		state := eng.Refresh(ctx, kind)
		return stateResult(state)
	case "monthly":
		res := eng.RefreshMonthly(ctx, input.Force)
		if res.State.Status == engine.StatusError {
			return errorResult(res.State.Err), nil
		}
		return successResult(res)
	case "album":
		if input.AlbumID == "" {
			return errorResult(errors.NewValidate("album_id is required when kind is album")), nil
		}
		state := eng.RefreshAlbum(ctx, input.AlbumID)
		return stateResult(state)
	default:
		return errorResult(errors.NewValidate("kind must be one of: daily, weekly, monthly, album")), nil
	}
}

// HandleFlow handles the mood_flow tool call.
func (h *Handlers) HandleFlow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FlowRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	result, err := ops.Flow(h.db, h.cfg, ops.FlowInput{Day: input.Day})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSignal handles the mood_signal tool call.
func (h *Handlers) HandleSignal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Signal(h.db, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStreak handles the mood_streak tool call.
func (h *Handlers) HandleStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Streak(h.db, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMoodByTime handles the mood_by_time tool call.
func (h *Handlers) HandleMoodByTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.MoodByTime(h.db, h.cfg, ops.MoodByTimeInput{})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAlbumCreate handles the album_create tool call.
func (h *Handlers) HandleAlbumCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AlbumCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	result, err := ops.AlbumCreate(h.db, h.cfg, ops.AlbumCreateInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAlbumAdd handles the album_add tool call.
func (h *Handlers) HandleAlbumAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AlbumAddRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	result, err := ops.AlbumAdd(h.db, h.cfg, ops.AlbumAddInput{
		AlbumID:   input.AlbumID,
		CaptureID: input.CaptureID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAlbumList handles the album_list tool call.
func (h *Handlers) HandleAlbumList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.AlbumList(h.db, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAlbumShow handles the album_show tool call.
func (h *Handlers) HandleAlbumShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AlbumShowRequest](req)
	if err != nil {
		return errorResult(errors.NewValidate(err.Error())), nil
	}

	result, err := ops.AlbumShow(h.db, h.cfg, ops.AlbumShowInput{AlbumID: input.AlbumID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func parseKind(s string) (period.Kind, error) {
	switch s {
	case "daily":
		return period.Daily, nil
	case "weekly":
		return period.Weekly, nil
	case "monthly":
		return period.Monthly, nil
	default:
		return "", errors.NewValidate("kind must be one of: daily, weekly, monthly")
	}
}

// Result helpers

// stateResult maps an orchestrator state to an MCP result: error
// states come back as tool errors, everything else as JSON.
func stateResult(state engine.State) (*mcp.CallToolResult, error) {
	if state.Status == engine.StatusError {
		return errorResult(state.Err), nil
	}
	return successResult(state)
}

// errorResult creates an MCP error result from any error. The payload
// carries the stage taxonomy plus the derived user message; raw
// internals are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	iErr := errors.From(err)
	errorObj := map[string]any{
		"stage":        string(iErr.Stage),
		"message":      iErr.Message,
		"user_message": errors.UserMessage(iErr),
	}
	if iErr.RequestID != "" {
		errorObj["request_id"] = iErr.RequestID
	}
	payload := map[string]any{"error": errorObj}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
