package repository

import (
	"bodylog/internal/models"

	"gorm.io/gorm"
)

type UserProfileRepository interface {
	Create(profile *models.UserProfile) error
	FindByID(id uint) (*models.UserProfile, error)
	FindByUserID(userID uint) (*models.UserProfile, error)
	FindPublicProfiles() ([]models.UserProfile, error)
	IsPublic(userID uint) (bool, error)
	Update(profile *models.UserProfile) error
	Patch(userID uint, data map[string]interface{}) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

func (r *userProfileRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

func (r *userProfileRepository) FindByID(id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) FindByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) FindPublicProfiles() ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := r.db.Where("public = ?", true).Order("display_name ASC").Find(&profiles).Error
	return profiles, err
}

func (r *userProfileRepository) IsPublic(userID uint) (bool, error) {
	var profile models.UserProfile
	err := r.db.Select("public").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return false, err
	}
	return profile.Public != nil && *profile.Public, nil
}

func (r *userProfileRepository) Update(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

func (r *userProfileRepository) Patch(userID uint, data map[string]interface{}) error {
	return r.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(data).Error
}

func (r *userProfileRepository) Delete(id uint) error {
	return r.db.Delete(&models.UserProfile{}, id).Error
}

func (r *userProfileRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error
}
