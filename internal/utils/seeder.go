package utils

import (
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bodylog/internal/models"
)

const DefaultNumUsers = 10

// SeedUsers creates test users with profiles and a year of daily-ish
// measurement history. Existing rows with the same emails are replaced.
func SeedUsers(db *gorm.DB, numUsers int) error {
	if numUsers <= 0 {
		numUsers = DefaultNumUsers
	}

	log.Printf("Seeding %d users with measurement history...", numUsers)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for i := 1; i <= numUsers; i++ {
		email := fmt.Sprintf("testuser%d@example.com", i)

		if err := db.Unscoped().Where("email = ?", email).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to clean up existing seed user %s: %w", email, err)
		}

		user := models.User{
			Name:     fmt.Sprintf("Test User %d", i),
			Email:    email,
			Password: string(hash),
			Verified: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", email, err)
		}

		heightCm := 155 + mathrand.Intn(40)
		public := i%2 == 0
		displayName := fmt.Sprintf("User%d", i)
		profile := models.UserProfile{
			UserID:      user.ID,
			DisplayName: &displayName,
			HeightCm:    &heightCm,
			Public:      &public,
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create seed profile for %s: %w", email, err)
		}

		if err := seedMeasurements(db, user.ID, heightCm); err != nil {
			return fmt.Errorf("failed to seed measurements for %s: %w", email, err)
		}

		if i%100 == 0 {
			log.Printf("Seeded %d/%d users", i, numUsers)
		}
	}

	log.Printf("Seeding completed: %d users", numUsers)
	return nil
}

func seedMeasurements(db *gorm.DB, userID uint, heightCm int) error {
	baseWeight := 55.0 + mathrand.Float64()*40.0
	now := time.Now()

	measurements := make([]models.Measurement, 0, 365)
	for day := 364; day >= 0; day-- {
		// Not everyone weighs in every day.
		if mathrand.Float64() < 0.35 {
			continue
		}

		measuredAt := now.AddDate(0, 0, -day).Add(-time.Duration(mathrand.Intn(120)) * time.Minute)
		weight := baseWeight + mathrand.Float64()*2.0 - 1.0
		baseWeight += mathrand.Float64()*0.2 - 0.11

		fat := 12.0 + mathrand.Float64()*18.0
		water := 45.0 + mathrand.Float64()*15.0
		muscle := 30.0 + mathrand.Float64()*15.0
		bone := 3.0 + mathrand.Float64()*2.0
		kcal := 1600 + mathrand.Intn(900)
		bmi := CalculateBMI(weight, heightCm)

		measurements = append(measurements, models.Measurement{
			UserID:          userID,
			MeasuredAt:      measuredAt,
			WeightKg:        weight,
			BodyFatPct:      &fat,
			BodyWaterPct:    &water,
			MuscleMassPct:   &muscle,
			BoneMassPct:     &bone,
			RecommendedKcal: &kcal,
			BMI:             &bmi,
		})
	}

	return db.CreateInBatches(measurements, 200).Error
}
