// Package mcptools exposes logging and dashboard reads as MCP tools backed by the HTTP service.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/client"
)

// API is the part of the service client the tools call.
type API interface {
	PostMessage(ctx context.Context, userID, text, channelRef string) (*client.PostMessageResponse, error)
	Confirm(ctx context.Context, userID, pendingID string) (*client.Confirmation, error)
	Reject(ctx context.Context, userID, pendingID string) (*client.Confirmation, error)
	KPIs(ctx context.Context, userID, rng string) (*client.KPIs, error)
	LogHistory(ctx context.Context, userID, rng, typ string) ([]client.HistoryItem, error)
	ExercisePRs(ctx context.Context, userID string) ([]client.ExerciseRecord, error)
}

// LogHandler exposes log_message, confirm_entry and reject_entry.
type LogHandler struct {
	api API
}

func NewLogHandler(api API) *LogHandler { return &LogHandler{api: api} }

// RegisterTools registers logging tools.
func (h *LogHandler) RegisterTools(s *server.MCPServer) error {
	s.AddTool(mcp.NewTool("log_message",
		mcp.WithDescription("Extract meals, workouts, exercises, bodyweight and wellness entries from free text and stage them for confirmation. Returns one pending entry per detected event."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user the entries belong to")),
		mcp.WithString("text", mcp.Required(), mcp.Description("What the user ate, did or felt, in their own words")),
		mcp.WithString("channel_ref", mcp.Description("Optional reference to the conversation the message came from")),
	), h.handleLogMessage)

	s.AddTool(mcp.NewTool("confirm_entry",
		mcp.WithDescription("Persist a staged entry. Returns outcome confirmed, or not_found when it was already processed."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user who owns the entry")),
		mcp.WithString("pending_id", mcp.Required(), mcp.Description("The pending entry id returned by log_message")),
	), h.handleConfirm)

	s.AddTool(mcp.NewTool("reject_entry",
		mcp.WithDescription("Discard a staged entry without saving it."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user who owns the entry")),
		mcp.WithString("pending_id", mcp.Required(), mcp.Description("The pending entry id returned by log_message")),
	), h.handleReject)
	return nil
}

func (h *LogHandler) handleLogMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	channelRef := optString(req, "channel_ref", "")

	log.Debug().Str("user_id", userID).Int("text_len", len(text)).Msg("handling log_message request")

	start := time.Now()
	out, err := h.api.PostMessage(ctx, userID, text, channelRef)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Dur("elapsed", time.Since(start)).Msg("log_message failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to log message: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Staged %d entr%s for confirmation:\n", out.Count, plural(out.Count))
	for _, e := range out.Entries {
		fmt.Fprintf(&b, "- [%s] %s\n  %s\n", e.Pending.ID, e.Pending.Type, e.Text)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func (h *LogHandler) handleConfirm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.transition(ctx, req, "confirm_entry", h.api.Confirm)
}

func (h *LogHandler) handleReject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.transition(ctx, req, "reject_entry", h.api.Reject)
}

func (h *LogHandler) transition(ctx context.Context, req mcp.CallToolRequest, tool string,
	call func(context.Context, string, string) (*client.Confirmation, error)) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	pendingID, err := req.RequireString("pending_id")
	if err != nil {
		return mcp.NewToolResultError("pending_id parameter is required"), nil
	}

	out, err := call(ctx, userID, pendingID)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Str("pending_id", pendingID).Msg("transition failed")
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
	}
	switch out.Outcome {
	case "confirmed":
		return mcp.NewToolResultText("Logged."), nil
	case "rejected":
		return mcp.NewToolResultText("Discarded."), nil
	case "not_found":
		return mcp.NewToolResultText("Already processed or not found."), nil
	default:
		return mcp.NewToolResultText(fmt.Sprintf("Outcome: %s", out.Outcome)), nil
	}
}

// DashboardHandler exposes get_kpis, get_log_history and get_exercise_prs.
type DashboardHandler struct {
	api API
}

func NewDashboardHandler(api API) *DashboardHandler { return &DashboardHandler{api: api} }

// RegisterTools registers dashboard read tools.
func (h *DashboardHandler) RegisterTools(s *server.MCPServer) error {
	s.AddTool(mcp.NewTool("get_kpis",
		mcp.WithDescription("Average daily calories and protein, current weight, calorie balance and average wellness and performance scores over a trailing window."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user to report on")),
		mcp.WithString("range", mcp.Description("Trailing window such as 7d or 30d, default 7d")),
	), h.handleKPIs)

	s.AddTool(mcp.NewTool("get_log_history",
		mcp.WithDescription("Every logged entry in a trailing window, newest first."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user to report on")),
		mcp.WithString("range", mcp.Description("Trailing window such as 30d, default 30d")),
		mcp.WithString("type", mcp.Description("all, meal, workout, exercise, weight, wellness or workout_quality; default all")),
	), h.handleLogHistory)

	s.AddTool(mcp.NewTool("get_exercise_prs",
		mcp.WithDescription("Heaviest weight ever logged per exercise."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user to report on")),
	), h.handleExercisePRs)
	return nil
}

func (h *DashboardHandler) handleKPIs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	out, err := h.api.KPIs(ctx, userID, optString(req, "range", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get kpis: %v", err)), nil
	}
	return jsonResult(out)
}

func (h *DashboardHandler) handleLogHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	out, err := h.api.LogHistory(ctx, userID, optString(req, "range", ""), optString(req, "type", "all"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get log history: %v", err)), nil
	}
	return jsonResult(out)
}

func (h *DashboardHandler) handleExercisePRs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	out, err := h.api.ExercisePRs(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get exercise PRs: %v", err)), nil
	}
	return jsonResult(out)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// optString reads an optional string argument.
func optString(req mcp.CallToolRequest, key, def string) string {
	if v, ok := req.GetArguments()[key].(string); ok && v != "" {
		return v
	}
	return def
}
