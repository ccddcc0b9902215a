package chat

import (
	"context"
	"strings"
	"time"

	domain "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/models"
	"github.com/workhive/workhive-api/internal/realtime"
)

// ======================================================
// USE CASE
// ======================================================

type SendMessage struct {
	dir    domain.Directory
	msgs   domain.MessageStore
	broker *realtime.Broker
}

func NewSendMessage(
	dir domain.Directory,
	msgs domain.MessageStore,
	broker *realtime.Broker,
) *SendMessage {
	return &SendMessage{
		dir:    dir,
		msgs:   msgs,
		broker: broker,
	}
}

// Execute appends one message to the conversation log. The append is
// durable before anything is published, so a subscriber never sees a
// message that was not stored.
func (uc *SendMessage) Execute(
	ctx context.Context,
	conversationID string,
	senderID uint,
	text string,
) (*models.Message, error) {

	if senderID == 0 {
		return nil, httperr.ErrAuthRequired("auth_required", "Sign in to send messages.")
	}

	body := strings.TrimSpace(text)
	if body == "" {
		return nil, httperr.ErrValidation("empty_message", "Message text cannot be empty.")
	}

	conv, err := uc.dir.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not load conversation.")
	}
	if conv == nil {
		return nil, httperr.ErrNotFound("conversation_not_found", "Conversation not found.")
	}

	if senderID != conv.ParticipantA && senderID != conv.ParticipantB {
		return nil, httperr.ErrNotFound("conversation_not_found", "Conversation not found.")
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      time.Now(),
	}

	if err := uc.msgs.AppendMessage(ctx, msg); err != nil {
		return nil, httperr.ErrTransient("store_unavailable", "Could not send message.")
	}

	// the message is stored; a stale sort key is tolerable
	_ = uc.msgs.TouchConversation(ctx, conversationID, msg.CreatedAt)

	ev := realtime.Event{
		Type: realtime.EventMessageNew,
		Data: msg,
	}
	uc.broker.Publish(realtime.ConversationTopic(conversationID), ev)
	uc.broker.Publish(realtime.UserTopic(conv.ParticipantA), ev)
	uc.broker.Publish(realtime.UserTopic(conv.ParticipantB), ev)

	return msg, nil
}
