package models

import "time"

// One rating per user per service, score 1..5.
type Rating struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    uint `gorm:"uniqueIndex:idx_rating_user_service" json:"user_id"`
	ServiceID uint `gorm:"uniqueIndex:idx_rating_user_service;index" json:"service_id"`

	Score int `gorm:"not null" json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
