package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ryan-kosiba/nutriclaude/client"
)

type fakeAPI struct {
	posted     []string
	confirmed  []string
	outcome    string
	err        error
	historyTyp string
}

func (f *fakeAPI) PostMessage(_ context.Context, userID, text, channelRef string) (*client.PostMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.posted = append(f.posted, userID+":"+text+":"+channelRef)
	return &client.PostMessageResponse{Count: 2, Entries: []client.StagedEntry{
		{Pending: client.Pending{ID: "p-1", Type: "meal"}, Text: "Meal: oatmeal (300 kcal)"},
		{Pending: client.Pending{ID: "p-2", Type: "workout"}, Text: "Workout: legs"},
	}}, nil
}

func (f *fakeAPI) Confirm(_ context.Context, _, pendingID string) (*client.Confirmation, error) {
	f.confirmed = append(f.confirmed, pendingID)
	return &client.Confirmation{Outcome: f.outcome, PendingID: pendingID}, f.err
}

func (f *fakeAPI) Reject(_ context.Context, _, pendingID string) (*client.Confirmation, error) {
	return &client.Confirmation{Outcome: "rejected", PendingID: pendingID}, f.err
}

func (f *fakeAPI) KPIs(context.Context, string, string) (*client.KPIs, error) {
	return &client.KPIs{AvgDailyCalories: 1500, CalorieBalance: 1800}, f.err
}

func (f *fakeAPI) LogHistory(_ context.Context, _, _, typ string) ([]client.HistoryItem, error) {
	f.historyTyp = typ
	return []client.HistoryItem{{ID: "a", Type: "meal", Value: "300 kcal"}}, f.err
}

func (f *fakeAPI) ExercisePRs(context.Context, string) ([]client.ExerciseRecord, error) {
	return []client.ExerciseRecord{{ExerciseName: "bench", WeightLbs: 185}}, f.err
}

func call(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	return res.Content[0].(mcp.TextContent).Text
}

func TestLogMessage_ListsStagedEntries(t *testing.T) {
	api := &fakeAPI{}
	h := NewLogHandler(api)

	res, err := h.handleLogMessage(context.Background(), call(map[string]any{
		"user_id": "u1", "text": "oatmeal then legs", "channel_ref": "chat-9",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}
	got := text(t, res)
	if !strings.Contains(got, "Staged 2 entries") || !strings.Contains(got, "[p-1] meal") {
		t.Fatalf("unexpected text %q", got)
	}
	if len(api.posted) != 1 || api.posted[0] != "u1:oatmeal then legs:chat-9" {
		t.Fatalf("unexpected post %v", api.posted)
	}
}

func TestLogMessage_MissingArgs(t *testing.T) {
	h := NewLogHandler(&fakeAPI{})
	res, _ := h.handleLogMessage(context.Background(), call(map[string]any{"user_id": "u1"}))
	if !res.IsError {
		t.Fatalf("expected tool error without text")
	}
}

func TestLogMessage_ServiceErrorIsToolError(t *testing.T) {
	h := NewLogHandler(&fakeAPI{err: errors.New("502 Bad Gateway")})
	res, err := h.handleLogMessage(context.Background(), call(map[string]any{"user_id": "u1", "text": "x"}))
	if err != nil {
		t.Fatalf("errors must be reported in the result, got %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error")
	}
}

func TestConfirmOutcomes(t *testing.T) {
	api := &fakeAPI{outcome: "confirmed"}
	h := NewLogHandler(api)
	args := map[string]any{"user_id": "u1", "pending_id": "p-1"}

	res, _ := h.handleConfirm(context.Background(), call(args))
	if got := text(t, res); got != "Logged." {
		t.Fatalf("unexpected %q", got)
	}
	api.outcome = "not_found"
	res, _ = h.handleConfirm(context.Background(), call(args))
	if got := text(t, res); got != "Already processed or not found." {
		t.Fatalf("unexpected %q", got)
	}
	res, _ = h.handleReject(context.Background(), call(args))
	if got := text(t, res); got != "Discarded." {
		t.Fatalf("unexpected %q", got)
	}
}

func TestDashboardTools(t *testing.T) {
	api := &fakeAPI{}
	h := NewDashboardHandler(api)

	res, _ := h.handleKPIs(context.Background(), call(map[string]any{"user_id": "u1", "range": "7d"}))
	var k client.KPIs
	if err := json.Unmarshal([]byte(text(t, res)), &k); err != nil {
		t.Fatalf("kpis not JSON: %v", err)
	}
	if k.AvgDailyCalories != 1500 {
		t.Fatalf("unexpected kpis %+v", k)
	}

	_, _ = h.handleLogHistory(context.Background(), call(map[string]any{"user_id": "u1"}))
	if api.historyTyp != "all" {
		t.Fatalf("type should default to all, got %q", api.historyTyp)
	}

	res, _ = h.handleExercisePRs(context.Background(), call(map[string]any{"user_id": "u1"}))
	if !strings.Contains(text(t, res), `"exercise_name": "bench"`) {
		t.Fatalf("unexpected PRs %s", text(t, res))
	}
}

func TestNewServer(t *testing.T) {
	s, err := NewServer("nutriclaude-mcp", "test", &fakeAPI{})
	if err != nil || s == nil {
		t.Fatalf("NewServer: %v", err)
	}
}
