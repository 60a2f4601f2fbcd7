package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// StagingService holds extracted entries until the user confirms or rejects them.
type StagingService struct {
	store store.Store
	log   zerolog.Logger
}

func NewStagingService(s store.Store, log zerolog.Logger) *StagingService {
	return &StagingService{store: s, log: log}
}

// Stage stores e for userID and returns the pending log with its generated id.
// Entries that can never be persisted are refused.
func (s *StagingService) Stage(ctx context.Context, userID, channelRef string, e model.Entry) (*model.PendingLog, error) {
	if e == nil || !e.Kind().Persistent() {
		return nil, fmt.Errorf("entry cannot be staged: %w", model.ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", model.ErrValidation)
	}
	p, err := s.store.Pending().Create(ctx, &model.PendingLog{UserID: userID, ChannelRef: channelRef, Entry: e})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("pending_id", p.ID).Str("type", string(e.Kind())).Str("user_id", userID).Msg("entry staged")
	return p, nil
}

// Peek returns the staged entry. A missing entry is reported through found, not err.
func (s *StagingService) Peek(ctx context.Context, id string) (p *model.PendingLog, found bool, err error) {
	p, err = s.store.Pending().Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Discard removes the staged entry if it still exists.
func (s *StagingService) Discard(ctx context.Context, id string) error {
	if err := s.store.Pending().Delete(ctx, id); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return nil
}
