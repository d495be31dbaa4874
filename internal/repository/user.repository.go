package repository

import (
	"bodylog/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	PatchUser(id uint, data map[string]interface{}) error
	DeleteUser(id uint) error
	SetUserVerified(email string) error
	IsUserVerified(email string) (bool, error)
	UpdatePassword(email, hashedPassword string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (ur *userRepository) CreateUser(user *models.User) error {
	user.Verified = false
	return ur.db.Create(user).Error
}

func (ur *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := ur.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (ur *userRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := ur.db.First(&user, id).Error
	return &user, err
}

func (ur *userRepository) PatchUser(id uint, data map[string]interface{}) error {
	var user models.User

	if err := ur.db.First(&user, id).Error; err != nil {
		return err
	}

	return ur.db.Model(&user).Updates(data).Error
}

func (ur *userRepository) UpdateUser(user *models.User) error {
	return ur.db.Save(user).Error
}

func (ur *userRepository) DeleteUser(id uint) error {
	return ur.db.Delete(&models.User{}, id).Error
}

func (ur *userRepository) SetUserVerified(email string) error {
	return ur.db.Model(&models.User{}).Where("email = ?", email).Update("verified", true).Error
}

func (ur *userRepository) IsUserVerified(email string) (bool, error) {
	var user models.User
	err := ur.db.Select("verified").Where("email = ?", email).First(&user).Error
	if err != nil {
		return false, err
	}
	return user.Verified, nil
}

func (ur *userRepository) UpdatePassword(email, hashedPassword string) error {
	return ur.db.Model(&models.User{}).Where("email = ?", email).Update("password", hashedPassword).Error
}
