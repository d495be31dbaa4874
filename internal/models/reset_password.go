package models

import (
	"time"

	"gorm.io/gorm"
)

type ResetPassword struct {
	ID        uint           `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt time.Time      `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt time.Time      `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
	Email     string         `gorm:"unique" json:"email" example:"john.doe@example.com"`
	Token     string         `gorm:"index" json:"token" example:"7f6c1b2e-53a4-4f0a-9c3d-2e8a1b6f4d90"`
	ExpiresAt time.Time      `json:"expires_at" example:"2023-01-01T00:00:00Z"`
}
