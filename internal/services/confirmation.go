package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// Outcome is the terminal state reached by a confirm or reject call.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
	// OutcomeNotFound means the entry was already processed or never staged.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeDiscarded means the staged kind has no permanent table; it was dropped.
	OutcomeDiscarded Outcome = "discarded"
)

// Confirmation reports what happened to a pending entry.
type Confirmation struct {
	Outcome   Outcome       `json:"outcome"`
	PendingID string        `json:"pending_id"`
	Record    *model.Record `json:"record,omitempty"`
}

// ConfirmationService moves staged entries into permanent storage or drops them.
type ConfirmationService struct {
	store store.Store
	log   zerolog.Logger
}

func NewConfirmationService(s store.Store, log zerolog.Logger) *ConfirmationService {
	return &ConfirmationService{store: s, log: log}
}

// Confirm persists the staged entry under its pending id and removes it from staging
// in one atomic step. Entries owned by someone other than userID are reported as not found.
// On a store error the staged entry is left in place.
func (c *ConfirmationService) Confirm(ctx context.Context, userID, pendingID string) (*Confirmation, error) {
	out := &Confirmation{PendingID: pendingID}

	p, err := c.owned(ctx, userID, pendingID)
	if errors.Is(err, model.ErrNotFound) {
		out.Outcome = OutcomeNotFound
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	if !p.Kind().Persistent() {
		if err := c.store.Pending().Delete(ctx, pendingID); err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		c.log.Warn().Str("pending_id", pendingID).Str("type", string(p.Kind())).Msg("discarded staged entry without a table")
		out.Outcome = OutcomeDiscarded
		return out, nil
	}

	rec, err := c.store.Pending().Commit(ctx, pendingID, &model.Record{UserID: p.UserID, Entry: p.Entry})
	if errors.Is(err, model.ErrNotFound) {
		// processed concurrently between the lookup and the commit
		out.Outcome = OutcomeNotFound
		return out, nil
	}
	if err != nil {
		c.log.Error().Stack().Err(err).Str("pending_id", pendingID).Msg("confirm failed; entry stays staged")
		return nil, err
	}
	c.log.Info().Str("pending_id", pendingID).Str("type", string(p.Kind())).Str("user_id", p.UserID).Msg("entry confirmed")
	out.Outcome = OutcomeConfirmed
	out.Record = rec
	return out, nil
}

// Reject deletes the staged entry. A missing entry yields OutcomeNotFound.
func (c *ConfirmationService) Reject(ctx context.Context, userID, pendingID string) (*Confirmation, error) {
	out := &Confirmation{PendingID: pendingID}

	if _, err := c.owned(ctx, userID, pendingID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			out.Outcome = OutcomeNotFound
			return out, nil
		}
		return nil, err
	}
	err := c.store.Pending().Delete(ctx, pendingID)
	if errors.Is(err, model.ErrNotFound) {
		out.Outcome = OutcomeNotFound
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Outcome = OutcomeRejected
	return out, nil
}

// owned loads the pending entry; an empty userID skips the ownership check.
func (c *ConfirmationService) owned(ctx context.Context, userID, pendingID string) (*model.PendingLog, error) {
	p, err := c.store.Pending().Get(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if userID != "" && p.UserID != userID {
		return nil, model.ErrNotFound
	}
	return p, nil
}
