package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Message string `gorm:"size:500" json:"message"`

	RelatedBookingID *uint `json:"related_booking_id"`

	Read bool `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
