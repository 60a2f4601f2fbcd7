package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ryan-kosiba/nutriclaude/internal/core/entry"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// EntryService edits and deletes permanent rows on behalf of their owner.
type EntryService struct {
	store store.Store
	loc   *time.Location
}

func NewEntryService(s store.Store, loc *time.Location) *EntryService {
	return &EntryService{store: s, loc: loc}
}

func (s *EntryService) Get(ctx context.Context, userID string, kind model.Kind, id string) (*model.Record, error) {
	if !kind.Persistent() {
		return nil, fmt.Errorf("unknown log kind %q: %w", kind, model.ErrValidation)
	}
	return s.store.Logs().Get(ctx, kind, userID, id)
}

// Update replaces the row's fields with body after validating it as kind.
func (s *EntryService) Update(ctx context.Context, userID string, kind model.Kind, id string, body []byte) (*model.Record, error) {
	if !kind.Persistent() {
		return nil, fmt.Errorf("unknown log kind %q: %w", kind, model.ErrValidation)
	}
	e, err := entry.ValidateJSON(kind, body, s.loc)
	if err != nil {
		return nil, err
	}
	return s.store.Logs().Update(ctx, &model.Record{ID: id, UserID: userID, Entry: e})
}

func (s *EntryService) Delete(ctx context.Context, userID string, kind model.Kind, id string) error {
	if !kind.Persistent() {
		return fmt.Errorf("unknown log kind %q: %w", kind, model.ErrValidation)
	}
	return s.store.Logs().Delete(ctx, kind, userID, id)
}
