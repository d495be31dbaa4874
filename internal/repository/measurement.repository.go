package repository

import (
	"bodylog/internal/models"
	"time"

	"gorm.io/gorm"
)

type MeasurementRepository interface {
	Create(measurement *models.Measurement) error
	FindByID(id uint) (*models.Measurement, error)
	// FetchPage returns one page of a user's measurements ordered newest
	// first, together with the total count for that user.
	FetchPage(userID uint, offset, limit int) ([]models.Measurement, int64, error)
	FindLatestByUserID(userID uint) (*models.Measurement, error)
	FindByUserIDAndDateRange(userID uint, startDate, endDate time.Time) ([]models.Measurement, error)
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

type measurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db}
}

func (r *measurementRepository) Create(measurement *models.Measurement) error {
	return r.db.Create(measurement).Error
}

func (r *measurementRepository) FindByID(id uint) (*models.Measurement, error) {
	var measurement models.Measurement
	err := r.db.First(&measurement, id).Error
	if err != nil {
		return nil, err
	}
	return &measurement, nil
}

func (r *measurementRepository) FetchPage(userID uint, offset, limit int) ([]models.Measurement, int64, error) {
	var total int64
	if err := r.db.Model(&models.Measurement{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var measurements []models.Measurement
	err := r.db.Where("user_id = ?", userID).
		Order("measured_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&measurements).Error
	if err != nil {
		return nil, 0, err
	}

	return measurements, total, nil
}

func (r *measurementRepository) FindLatestByUserID(userID uint) (*models.Measurement, error) {
	var measurement models.Measurement
	err := r.db.Where("user_id = ?", userID).
		Order("measured_at DESC, id DESC").
		First(&measurement).Error
	if err != nil {
		return nil, err
	}
	return &measurement, nil
}

func (r *measurementRepository) FindByUserIDAndDateRange(userID uint, startDate, endDate time.Time) ([]models.Measurement, error) {
	var measurements []models.Measurement
	err := r.db.Where("user_id = ? AND measured_at BETWEEN ? AND ?", userID, startDate, endDate).
		Order("measured_at DESC, id DESC").
		Find(&measurements).Error
	return measurements, err
}

func (r *measurementRepository) Delete(id uint) error {
	return r.db.Delete(&models.Measurement{}, id).Error
}

func (r *measurementRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Measurement{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
