package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// PostMessage sends free text for extraction. Every loggable entry comes back staged.
func (c *Client) PostMessage(ctx context.Context, userID, text, channelRef string) (*PostMessageResponse, error) {
	var out PostMessageResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/users/{userId}/messages",
		params: user(userID),
		body:   map[string]string{"text": text, "channel_ref": channelRef},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPending(ctx context.Context, userID, pendingID string) (*Pending, error) {
	var out Pending
	params := user(userID)
	params["pendingId"] = pendingID
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/{userId}/pending/{pendingId}", params: params, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Confirm(ctx context.Context, userID, pendingID string) (*Confirmation, error) {
	return c.transition(ctx, userID, pendingID, "confirm")
}

func (c *Client) Reject(ctx context.Context, userID, pendingID string) (*Confirmation, error) {
	return c.transition(ctx, userID, pendingID, "reject")
}

func (c *Client) transition(ctx context.Context, userID, pendingID, action string) (*Confirmation, error) {
	var out Confirmation
	params := user(userID)
	params["pendingId"] = pendingID
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/users/{userId}/pending/{pendingId}/" + action,
		params: params,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// KPIs returns headline numbers over rng, e.g. "7d". An empty rng uses the service default.
func (c *Client) KPIs(ctx context.Context, userID, rng string) (*KPIs, error) {
	var out KPIs
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/users/{userId}/kpis",
		params: user(userID),
		query:  map[string]string{"range": rng},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LogHistory lists logged rows newest first. typ is "all", a kind, or "weight".
func (c *Client) LogHistory(ctx context.Context, userID, rng, typ string) ([]HistoryItem, error) {
	var out []HistoryItem
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/users/{userId}/log-history",
		params: user(userID),
		query:  map[string]string{"range": rng, "type": typ},
		out:    &out,
	})
	return out, err
}

func (c *Client) ExercisePRs(ctx context.Context, userID string) ([]ExerciseRecord, error) {
	var out []ExerciseRecord
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/{userId}/exercise-prs", params: user(userID), out: &out})
	return out, err
}

// Daily returns the single-day view as raw JSON; date is YYYY-MM-DD or empty for today.
func (c *Client) Daily(ctx context.Context, userID, date string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/users/{userId}/daily",
		params: user(userID),
		query:  map[string]string{"date": date},
		out:    &out,
	})
	return out, err
}

func (c *Client) Summary(ctx context.Context, userID, date string) (*Summary, error) {
	var out Summary
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/users/{userId}/summary",
		params: user(userID),
		query:  map[string]string{"date": date},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetGoals(ctx context.Context, userID string) (*Goals, error) {
	var out Goals
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/{userId}/goals", params: user(userID), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PutGoals(ctx context.Context, userID string, g Goals) (*Goals, error) {
	var out Goals
	if err := c.do(ctx, call{method: http.MethodPut, path: "/api/users/{userId}/goals", params: user(userID), body: g, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntry removes a permanent row of kind owned by userID.
func (c *Client) DeleteEntry(ctx context.Context, userID, kind, id string) error {
	params := user(userID)
	params["kind"] = kind
	params["id"] = id
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/users/{userId}/entries/{kind}/{id}", params: params})
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/health", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
