package models

import "time"

type Favorite struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    uint `gorm:"uniqueIndex:idx_favorite_user_service" json:"user_id"`
	ServiceID uint `gorm:"uniqueIndex:idx_favorite_user_service" json:"service_id"`

	Service Service `gorm:"constraint:OnDelete:CASCADE;" json:"service"`

	CreatedAt time.Time `json:"created_at"`
}
