package chat

import (
	"context"
	"time"

	"github.com/workhive/workhive-api/internal/models"
)

// Lookups return (nil, nil) when the record does not exist; a non-nil
// error always means the store itself failed.

type Directory interface {
	GetConversation(
		ctx context.Context,
		id string,
	) (*models.Conversation, error)

	// CreateConversation must be a no-op when the row already exists
	// (deterministic id, both participants may race the insert).
	CreateConversation(
		ctx context.Context,
		conv *models.Conversation,
	) error

	ListConversationsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Conversation, error)
}

type MessageStore interface {
	AppendMessage(
		ctx context.Context,
		msg *models.Message,
	) error

	ListMessages(
		ctx context.Context,
		conversationID string,
	) ([]models.Message, error)

	LatestMessage(
		ctx context.Context,
		conversationID string,
	) (*models.Message, error)

	TouchConversation(
		ctx context.Context,
		conversationID string,
		at time.Time,
	) error
}

type ProfileStore interface {
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)
}
