package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message rows are append-only: created on send, never updated or
// deleted. Display order is created_at ascending with id as tiebreak.
type Message struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ConversationID string `gorm:"index;size:50;not null" json:"conversation_id"`
	SenderID       uint   `gorm:"index;not null" json:"sender_id"`

	Body string `gorm:"type:text;not null" json:"body"`
	Read bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
