package models

import (
	"time"

	"gorm.io/gorm"
)

// Measurement is a single body-composition reading taken from a scale.
// Only weight is guaranteed; a scale may report any subset of the other
// metrics per session. Measurements are created and deleted, never updated.
type Measurement struct {
	ID              uint           `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt       time.Time      `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt       time.Time      `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
	UserID          uint           `gorm:"index" json:"user_id" example:"1"`
	User            User           `gorm:"foreignKey:UserID" json:"-"`
	MeasuredAt      time.Time      `gorm:"index" json:"measured_at" example:"2023-01-01T07:30:00Z"`
	WeightKg        float64        `json:"weight_kg" example:"72.4"`
	BodyFatPct      *float64       `json:"body_fat_pct" example:"18.2"`
	BodyWaterPct    *float64       `json:"body_water_pct" example:"55.1"`
	MuscleMassPct   *float64       `json:"muscle_mass_pct" example:"42.7"`
	BoneMassPct     *float64       `json:"bone_mass_pct" example:"4.1"`
	RecommendedKcal *int           `json:"recommended_kcal" example:"2200"`
	BMI             *float64       `json:"bmi" example:"22.9"`
	Notes           string         `json:"notes" example:"after morning run"`
}
