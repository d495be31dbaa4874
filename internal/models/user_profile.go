package models

import (
	"time"

	"gorm.io/gorm"
)

type UserProfile struct {
	ID           uint           `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt    time.Time      `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt    time.Time      `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
	UserID       uint           `gorm:"unique" json:"user_id" example:"1"`
	DisplayName  *string        `json:"display_name" example:"John"`
	HeightCm     *int           `json:"height_cm" example:"175"`
	BirthYear    *int           `json:"birth_year" example:"1988"`
	GoalWeightKg *float64       `json:"goal_weight_kg" example:"70.0"`
	Public       *bool          `gorm:"default:false" json:"public" example:"false"`
}
