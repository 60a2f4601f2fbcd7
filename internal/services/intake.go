package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

var (
	// ErrNothingToLog is returned when the message held only unclassifiable content.
	ErrNothingToLog = errors.New("nothing to log")
	// ErrUserNotAllowed is returned when intake is restricted to another user.
	ErrUserNotAllowed = errors.New("user not allowed")
)

// Extractor turns a message into validated entries.
type Extractor interface {
	Extract(ctx context.Context, text string, ref time.Time) (*extract.Result, error)
}

// StagedEntry is one entry awaiting confirmation together with its prompt text.
type StagedEntry struct {
	Pending *model.PendingLog `json:"pending"`
	Text    string            `json:"text"`
}

// IntakeService runs a message through extraction and stages every loggable entry.
type IntakeService struct {
	ext         Extractor
	staging     *StagingService
	allowedUser string
	now         func() time.Time
	log         zerolog.Logger
}

// NewIntakeService builds the intake flow. A non-empty allowedUser restricts intake to that id.
func NewIntakeService(ext Extractor, staging *StagingService, allowedUser string, log zerolog.Logger) *IntakeService {
	return &IntakeService{ext: ext, staging: staging, allowedUser: allowedUser, now: time.Now, log: log}
}

// Ingest extracts entries from text, drops unknown ones and stages the rest, one pending log each.
func (s *IntakeService) Ingest(ctx context.Context, userID, channelRef, text string) ([]StagedEntry, error) {
	if s.allowedUser != "" && userID != s.allowedUser {
		s.log.Warn().Str("user_id", userID).Msg("intake refused for user")
		return nil, ErrUserNotAllowed
	}

	res, err := s.ext.Extract(ctx, text, s.now())
	if err != nil {
		return nil, err
	}

	var staged []StagedEntry
	for _, e := range res.Entries {
		if e.Kind() == model.KindUnknown {
			continue
		}
		p, err := s.staging.Stage(ctx, userID, channelRef, e)
		if err != nil {
			s.unstage(ctx, staged)
			return nil, err
		}
		staged = append(staged, StagedEntry{Pending: p, Text: ConfirmationText(e)})
	}
	if len(staged) == 0 {
		return nil, ErrNothingToLog
	}
	return staged, nil
}

// unstage discards entries staged before a failed Stage so a message is staged whole or not at all.
func (s *IntakeService) unstage(ctx context.Context, staged []StagedEntry) {
	for _, se := range staged {
		if err := s.staging.Discard(ctx, se.Pending.ID); err != nil {
			s.log.Error().Stack().Err(err).Str("pending_id", se.Pending.ID).Msg("failed to discard partially staged entry")
		}
	}
}
