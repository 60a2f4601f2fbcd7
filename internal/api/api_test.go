package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-kosiba/nutriclaude/internal/aggregate"
	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/llm"
	"github.com/ryan-kosiba/nutriclaude/internal/services"
	"github.com/ryan-kosiba/nutriclaude/internal/store/sqlite"
)

type testServer struct {
	router http.Handler
	reply  string
	err    error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := sqlite.Bootstrap(context.Background(), sqlite.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ts := &testServer{}
	gen := llm.GeneratorFunc(func(context.Context, string, string) (string, error) {
		return ts.reply, ts.err
	})
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	nop := zerolog.Nop()

	ext := extract.New(gen, loc, nop)
	staging := services.NewStagingService(st, nop)
	ts.router = NewRouter(Handlers{
		Intake: NewIntakeHandler(
			services.NewIntakeService(ext, staging, "", nop),
			staging,
			services.NewConfirmationService(st, nop),
		),
		Dashboard: NewDashboardHandler(aggregate.New(st, ext, loc, nop)),
		Entries:   NewEntryHandler(services.NewEntryService(st, loc), services.NewGoalsService(st)),
		Health:    NewHealthHandler(),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func recent() string {
	return time.Now().Add(-time.Hour).Format(time.RFC3339)
}

type postMessageResponse struct {
	Count   int `json:"count"`
	Entries []struct {
		Text    string `json:"text"`
		Pending struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"pending"`
	} `json:"entries"`
}

func TestMessageConfirmFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.reply = fmt.Sprintf("```json\n[%s, %s]\n```",
		fmt.Sprintf(`{"type":"meal","timestamp":%q,"description":"oatmeal","calories":300,"protein_g":10,"carbs_g":54,"fat_g":5}`, recent()),
		fmt.Sprintf(`{"type":"workout","timestamp":%q,"description":"legs","estimated_calories_burned":100,"intensity_score":7}`, recent()),
	)

	rr := ts.do(t, "POST", "/api/users/u1/messages", map[string]string{"text": "had oatmeal, did legs", "channel_ref": "chat-1"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var posted postMessageResponse
	decode(t, rr, &posted)
	require.Equal(t, 2, posted.Count)
	assert.Equal(t, "meal", posted.Entries[0].Pending.Type)
	assert.Equal(t, "workout", posted.Entries[1].Pending.Type)

	mealID := posted.Entries[0].Pending.ID
	rr = ts.do(t, "GET", "/api/users/u1/pending/"+mealID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, "GET", "/api/users/someone-else/pending/"+mealID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var out struct {
		Outcome services.Outcome `json:"outcome"`
	}
	rr = ts.do(t, "POST", "/api/users/u1/pending/"+mealID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	assert.Equal(t, services.OutcomeConfirmed, out.Outcome)

	rr = ts.do(t, "POST", "/api/users/u1/pending/"+mealID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	assert.Equal(t, services.OutcomeNotFound, out.Outcome)

	rr = ts.do(t, "POST", "/api/users/u1/pending/"+posted.Entries[1].Pending.ID+"/reject", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	assert.Equal(t, services.OutcomeRejected, out.Outcome)

	var kpis aggregate.KPIs
	rr = ts.do(t, "GET", "/api/users/u1/kpis?range=7d", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &kpis)
	assert.Equal(t, 300, kpis.AvgDailyCalories)
	assert.Equal(t, 300, kpis.CalorieBalance, "rejected workout is not counted")

	var hist []aggregate.HistoryItem
	rr = ts.do(t, "GET", "/api/users/u1/log-history?type=meal", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, mealID, hist[0].ID)
}

func TestMessageErrorsMapToStatus(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]string{"text": "something"}

	ts.err = errors.New("connection refused")
	assert.Equal(t, http.StatusBadGateway, ts.do(t, "POST", "/api/users/u1/messages", body).Code)

	ts.err = nil
	ts.reply = "I could not do that"
	rr := ts.do(t, "POST", "/api/users/u1/messages", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var envelope respond.ErrorResponse
	decode(t, rr, &envelope)
	assert.Equal(t, respond.ReasonMalformed, envelope.Reason)

	ts.reply = `[{"type":"meal","calories":-5}]`
	assert.Equal(t, http.StatusUnprocessableEntity, ts.do(t, "POST", "/api/users/u1/messages", body).Code)

	ts.reply = fmt.Sprintf(`{"type":"unknown","timestamp":%q}`, recent())
	assert.Equal(t, http.StatusUnprocessableEntity, ts.do(t, "POST", "/api/users/u1/messages", body).Code)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, "POST", "/api/users/u1/messages", map[string]string{"text": ""}).Code)
}

func TestBadParameters(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		method, path string
	}{
		{"GET", "/api/users/u1/kpis?range=week"},
		{"GET", "/api/users/u1/daily?date=14-01-2025"},
		{"GET", "/api/users/u1/exercise-history"},
		{"POST", "/api/users/u1/pending/not-a-uuid/confirm"},
		{"DELETE", "/api/users/u1/entries/unknown/abc"},
	}
	for _, c := range cases {
		rr := ts.do(t, c.method, c.path, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, c.path)
	}
}

func TestEntriesAndGoals(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "DELETE", "/api/users/u1/entries/meal/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, "PUT", "/api/users/u1/entries/meal/6ba7b810-9dad-11d1-80b4-00c04fd430c8", map[string]interface{}{"calories": 10})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing fields fail validation before lookup")

	var goals services.GoalsView
	rr = ts.do(t, "GET", "/api/users/u1/goals", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &goals)
	assert.Nil(t, goals.DailyCalories)

	rr = ts.do(t, "PUT", "/api/users/u1/goals", map[string]interface{}{"daily_calories": 2200, "height_feet": 5, "height_inches": 11})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &goals)
	require.NotNil(t, goals.DailyCalories)
	assert.Equal(t, 2200, *goals.DailyCalories)
	require.NotNil(t, goals.HeightFeet)
	assert.Equal(t, 5, *goals.HeightFeet)
	assert.Equal(t, 11.0, *goals.HeightInches)

	rr = ts.do(t, "PUT", "/api/users/u1/goals", map[string]interface{}{"daily_calories": -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthAlways200(t *testing.T) {
	ts := newTestServer(t)
	BindServiceHealth(func() bool { return false })
	defer BindServiceHealth(func() bool { return healthyFlag.Load() == 1 })

	rr := ts.do(t, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	decode(t, rr, &body)
	assert.Equal(t, "unhealthy", body["status"])
}
