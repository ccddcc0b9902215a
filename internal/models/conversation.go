package models

import "time"

// Conversation keys on the deterministic sorted-participant id, so the
// same pair of users always maps to the same row.
type Conversation struct {
	ID string `gorm:"primaryKey;size:50" json:"id"`

	ParticipantA uint `gorm:"index" json:"participant_a"`
	ParticipantB uint `gorm:"index" json:"participant_b"`

	LastMessageAt *time.Time `gorm:"index" json:"last_message_at"`

	CreatedAt time.Time `json:"created_at"`
}
