package repository

import (
	"bodylog/internal/models"

	"gorm.io/gorm"
)

type ResetPasswordRepository interface {
	CreateResetPassword(reset *models.ResetPassword) error
	FindByToken(token string) (*models.ResetPassword, error)
	DeleteByEmail(email string) error
}

type resetPasswordRepository struct {
	db *gorm.DB
}

func NewResetPasswordRepository(db *gorm.DB) ResetPasswordRepository {
	return &resetPasswordRepository{db: db}
}

func (r *resetPasswordRepository) CreateResetPassword(reset *models.ResetPassword) error {
	return r.db.Create(reset).Error
}

func (r *resetPasswordRepository) FindByToken(token string) (*models.ResetPassword, error) {
	var reset models.ResetPassword
	err := r.db.Where("token = ?", token).First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *resetPasswordRepository) DeleteByEmail(email string) error {
	return r.db.Unscoped().Where("email = ?", email).Delete(&models.ResetPassword{}).Error
}
