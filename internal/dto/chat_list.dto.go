package dto

import (
	"time"

	"github.com/workhive/workhive-api/internal/models"
)

type ChatPartnerDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Online    bool   `json:"online"`
}

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	SenderID  uint      `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatListEntryDTO struct {
	ConversationID string          `json:"conversation_id"`
	Partner        ChatPartnerDTO  `json:"partner"`
	LastMessage    *ChatMessageDTO `json:"last_message"`
}

func NewChatMessageDTO(m *models.Message) *ChatMessageDTO {
	if m == nil {
		return nil
	}
	return &ChatMessageDTO{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
