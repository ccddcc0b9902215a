package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint `gorm:"index" json:"provider_id"`
	Provider   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider"`

	Title       string  `gorm:"size:120;not null" json:"title"`
	Description string  `gorm:"size:1000" json:"description"`
	Price       float64 `json:"price"`
	Category    string  `gorm:"size:50;index" json:"category"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
