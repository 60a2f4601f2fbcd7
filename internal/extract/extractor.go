// Package extract turns free-text messages into validated log entries through a language model.
package extract

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/core/entry"
	"github.com/ryan-kosiba/nutriclaude/internal/llm"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

//go:embed prompts/extract.md
var extractPrompt string

//go:embed prompts/summary.md
var summaryPrompt string

// Rejection records one extracted element that failed validation.
type Rejection struct {
	Index int
	Tag   string
	Err   error
}

// Result holds the validated entries, their raw payloads at matching indexes, and the rejected elements.
type Result struct {
	Entries  []model.Entry
	Raw      []map[string]any
	Rejected []Rejection
}

// Extractor sends messages to a Generator and validates what comes back.
type Extractor struct {
	gen llm.Generator
	loc *time.Location
	log zerolog.Logger
}

// New returns an Extractor. loc is the zone given to the model for resolving relative dates
// and used for offset-less timestamps in its reply.
func New(gen llm.Generator, loc *time.Location, log zerolog.Logger) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{gen: gen, loc: loc, log: log}
}

// Extract asks the model for entries describing text, anchored at ref.
// At least one element must validate; rejected elements are logged and returned in Result.Rejected.
func (x *Extractor) Extract(ctx context.Context, text string, ref time.Time) (*Result, error) {
	user := fmt.Sprintf("Current date/time (%s): %s\n\nUser message: %s",
		x.loc.String(), ref.In(x.loc).Format(time.RFC3339), text)

	reply, err := x.gen.Generate(ctx, extractPrompt, user)
	if err != nil {
		x.log.Error().Err(err).Msg("extraction call failed")
		return nil, ProviderError{Err: err}
	}
	x.log.Debug().Str("reply", reply).Msg("model reply")

	payload := JSONPayload(reply)
	elems, err := decodeElements(payload)
	if err != nil {
		x.log.Error().Str("payload", payload).Err(err).Msg("model output is not JSON")
		return nil, MalformedOutputError{Text: payload, Err: err}
	}

	res := &Result{}
	var msgs []string
	for i, el := range elems {
		raw, ok := el.(map[string]any)
		if !ok {
			err := fmt.Errorf("element is not an object")
			res.Rejected = append(res.Rejected, Rejection{Index: i, Tag: "?", Err: err})
			msgs = append(msgs, "?: "+err.Error())
			continue
		}
		e, err := entry.ValidateIn(raw, x.loc)
		if err != nil {
			tag, _ := raw["type"].(string)
			if tag == "" {
				tag = "?"
			}
			res.Rejected = append(res.Rejected, Rejection{Index: i, Tag: tag, Err: err})
			msgs = append(msgs, tag+": "+err.Error())
			continue
		}
		res.Entries = append(res.Entries, e)
		res.Raw = append(res.Raw, raw)
	}

	if len(res.Entries) == 0 {
		return nil, NoValidEntriesError{Messages: msgs}
	}
	if len(msgs) > 0 {
		x.log.Warn().
			Int("accepted", len(res.Entries)).
			Int("rejected", len(msgs)).
			Msg("some entries failed validation: " + strings.Join(msgs, "; "))
	}
	return res, nil
}

// Summarize writes a short narrative of the day's workout and exercise rows.
func (x *Extractor) Summarize(ctx context.Context, date string, rows []*model.Record) (string, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}
	user := fmt.Sprintf("Date: %s\n\nRows:\n%s", date, b)
	reply, err := x.gen.Generate(ctx, summaryPrompt, user)
	if err != nil {
		return "", ProviderError{Err: err}
	}
	return strings.TrimSpace(reply), nil
}

// decodeElements parses payload as a JSON array or object, normalizing an object to one element.
func decodeElements(payload string) ([]any, error) {
	if !json.Valid([]byte(payload)) {
		var probe any
		err := json.Unmarshal([]byte(payload), &probe)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		return []any{t}, nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array, got %T", v)
	}
}
