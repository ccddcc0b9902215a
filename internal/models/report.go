package models

import "time"

type Report struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReporterID uint `gorm:"index" json:"reporter_id"`

	TargetUserID    *uint `json:"target_user_id"`
	TargetServiceID *uint `json:"target_service_id"`

	Reason string `gorm:"size:500;not null" json:"reason"`
	Status string `gorm:"size:20;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
