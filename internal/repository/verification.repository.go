package repository

import (
	"bodylog/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	CreateVerification(verification *models.Verification) error
	FindByEmail(email string) (*models.Verification, error)
	DeleteByEmail(email string) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateVerification(verification *models.Verification) error {
	return r.db.Create(verification).Error
}

func (r *verificationRepository) FindByEmail(email string) (*models.Verification, error) {
	var verification models.Verification
	err := r.db.Where("email = ?", email).First(&verification).Error
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) DeleteByEmail(email string) error {
	return r.db.Unscoped().Where("email = ?", email).Delete(&models.Verification{}).Error
}
