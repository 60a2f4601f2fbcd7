package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-kosiba/nutriclaude/internal/core/entry"
	"github.com/ryan-kosiba/nutriclaude/internal/llm"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

var eastern, _ = time.LoadLocation("America/New_York")

func fixedReply(reply string, calls *int, lastUser *string) llm.Generator {
	return llm.GeneratorFunc(func(_ context.Context, system, user string) (string, error) {
		if calls != nil {
			*calls++
		}
		if lastUser != nil {
			*lastUser = user
		}
		return reply, nil
	})
}

func TestJSONPayload_Precedence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced json", "Here you go:\n```json\n[{\"type\":\"unknown\"}]\n```\nthanks", `[{"type":"unknown"}]`},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence beats bare array", "[1, 2]\n```\n{\"b\":2}\n```", `{"b":2}`},
		{"array in prose", "Logged: [{\"a\":1},{\"b\":2}] done", `[{"a":1},{"b":2}]`},
		{"array beats object", `{"items":[1,2]}`, `[1,2]`},
		{"object in prose", "Sure! {\"a\":1} hope that helps", `{"a":1}`},
		{"raw text", "  not json at all \n", "not json at all"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JSONPayload(tc.in))
		})
	}
}

func TestExtract_MultipleEventsOfDifferentKinds(t *testing.T) {
	reply := "```json\n[" +
		`{"type":"meal","timestamp":"2025-03-10T08:00:00-04:00","description":"oatmeal","calories":300,"protein_g":10,"carbs_g":54,"fat_g":5},` +
		`{"type":"workout","timestamp":"2025-03-10T09:00:00-04:00","description":"legs for an hour","estimated_calories_burned":450,"intensity_score":7}` +
		"]\n```"
	var user string
	x := New(fixedReply(reply, nil, &user), eastern, zerolog.Nop())

	ref := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	res, err := x.Extract(context.Background(), "had oatmeal, did legs for an hour", ref)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	require.Len(t, res.Raw, 2)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, model.KindMeal, res.Entries[0].Kind())
	assert.Equal(t, model.KindWorkout, res.Entries[1].Kind())
	assert.Equal(t, "oatmeal", res.Raw[0]["description"])

	assert.Contains(t, user, "2025-03-10T10:00:00-04:00")
	assert.True(t, strings.HasSuffix(user, "User message: had oatmeal, did legs for an hour"))
}

func TestExtract_SingleObjectIsNormalized(t *testing.T) {
	reply := `Logged it: {"type":"bodyweight","timestamp":"2025-03-10T07:00:00","weight_lbs":182.4}`
	x := New(fixedReply(reply, nil, nil), eastern, zerolog.Nop())

	res, err := x.Extract(context.Background(), "weighed 182.4", time.Now())
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	bw := res.Entries[0].(*model.Bodyweight)
	assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), bw.Timestamp.UTC())
}

func TestExtract_ProviderErrorIsNotRetried(t *testing.T) {
	calls := 0
	gen := llm.GeneratorFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "", errors.New("connection reset")
	})
	x := New(gen, eastern, zerolog.Nop())

	_, err := x.Extract(context.Background(), "ate a banana", time.Now())
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Equal(t, 1, calls)
}

func TestExtract_MalformedOutput(t *testing.T) {
	for _, reply := range []string{
		"I could not parse that, sorry.",
		"```json\n[{\"type\":\"meal\",]\n```",
		`"just a string"`,
	} {
		x := New(fixedReply(reply, nil, nil), eastern, zerolog.Nop())
		_, err := x.Extract(context.Background(), "???", time.Now())
		require.Error(t, err, reply)
		assert.True(t, IsMalformedOutput(err), "reply %q gave %v", reply, err)
	}
}

func TestExtract_AllInvalidAggregatesMessages(t *testing.T) {
	reply := `[{"type":"meal","timestamp":"2025-03-10T08:00:00Z","description":"toast"},{"type":"snack","timestamp":"2025-03-10T08:00:00Z"}]`
	x := New(fixedReply(reply, nil, nil), eastern, zerolog.Nop())

	_, err := x.Extract(context.Background(), "toast", time.Now())
	require.Error(t, err)
	var nv NoValidEntriesError
	require.True(t, errors.As(err, &nv))
	require.Len(t, nv.Messages, 2)
	assert.True(t, strings.HasPrefix(nv.Messages[0], "meal: "))
	assert.Contains(t, nv.Messages[0], "calories")
	assert.True(t, strings.HasPrefix(nv.Messages[1], "snack: "))
}

func TestExtract_PartialFailureKeepsValidSubset(t *testing.T) {
	reply := `[{"type":"wellness","timestamp":"2025-03-10T08:00:00Z","symptom_score":4},{"type":"workout_quality","timestamp":"2025-03-10T08:00:00Z","performance_score":15}]`
	x := New(fixedReply(reply, nil, nil), eastern, zerolog.Nop())

	res, err := x.Extract(context.Background(), "tired, session was 15/10", time.Now())
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, model.KindWellness, res.Entries[0].Kind())
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.True(t, entry.IsFieldConstraint(res.Rejected[0].Err))
}

func TestExtract_EmptyArray(t *testing.T) {
	x := New(fixedReply("[]", nil, nil), eastern, zerolog.Nop())
	_, err := x.Extract(context.Background(), "hi", time.Now())
	assert.True(t, IsNoValidEntries(err))
}

func TestSummarize(t *testing.T) {
	var user string
	x := New(fixedReply("  Heavy squat day.  ", nil, &user), eastern, zerolog.Nop())
	rows := []*model.Record{{
		ID:     "r1",
		UserID: "u1",
		Entry:  &model.Exercise{Timestamp: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), ExerciseName: "squat", Sets: 5, Reps: 5, WeightLbs: 225},
	}}

	text, err := x.Summarize(context.Background(), "2025-03-10", rows)
	require.NoError(t, err)
	assert.Equal(t, "Heavy squat day.", text)
	assert.Contains(t, user, `"exercise_name":"squat"`)
	assert.Contains(t, user, "Date: 2025-03-10")
}
