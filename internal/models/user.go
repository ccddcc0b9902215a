package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Role       string `gorm:"size:20;default:'user'" json:"role"`
	IsProvider bool   `gorm:"default:false" json:"is_provider"`
	Banned     bool   `gorm:"default:false" json:"banned"`

	AvatarURL string `gorm:"size:255" json:"avatar_url"`
	Bio       string `gorm:"size:500" json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
