package chat

import (
	"context"
	"time"

	domain "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/realtime"
)

// ======================================================
// USE CASE
// ======================================================

type GetOrCreateConversation struct {
	dir    domain.Directory
	broker *realtime.Broker
}

func NewGetOrCreateConversation(
	dir domain.Directory,
	broker *realtime.Broker,
) *GetOrCreateConversation {
	return &GetOrCreateConversation{
		dir:    dir,
		broker: broker,
	}
}

// Execute is idempotent and order-independent: both participants can
// call it concurrently and end up with the same single row. The store's
// per-row write serialization resolves the race, not a lock here.
func (uc *GetOrCreateConversation) Execute(
	ctx context.Context,
	userIDA uint,
	userIDB uint,
) (*models.Conversation, error) {

	if userIDA == 0 || userIDB == 0 {
		return nil, httperr.ErrAuthRequired("auth_required", "Sign in to start a conversation.")
	}
	if userIDA == userIDB {
		return nil, httperr.ErrValidation("self_conversation", "Cannot start a conversation with yourself.")
	}

	id := domain.ConversationID(userIDA, userIDB)

	existing, err := uc.dir.GetConversation(ctx, id)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not load conversation.")
	}
	if existing != nil {
		return existing, nil
	}

	a, b := userIDA, userIDB
	if b < a {
		a, b = b, a
	}

	conv := &models.Conversation{
		ID:           id,
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    time.Now(),
	}

	if err := uc.dir.CreateConversation(ctx, conv); err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not create conversation.")
	}

	// The insert is a no-op when the other participant won the race;
	// re-read so both callers observe the same record.
	created, err := uc.dir.GetConversation(ctx, id)
	if err != nil || created == nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not load conversation.")
	}

	for _, uid := range []uint{a, b} {
		uc.broker.Publish(realtime.UserTopic(uid), realtime.Event{
			Type: realtime.EventConversationCreated,
			Data: created,
		})
	}

	return created, nil
}
