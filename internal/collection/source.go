package collection

import (
	"bodylog/internal/models"
	"bodylog/internal/repository"
)

// repositorySource adapts the measurement repository to the Source interface.
type repositorySource struct {
	repo repository.MeasurementRepository
}

// NewRepositorySource wraps a measurement repository as a collection Source.
func NewRepositorySource(repo repository.MeasurementRepository) Source {
	return &repositorySource{repo: repo}
}

func (s *repositorySource) FetchPage(ownerID uint, offset, limit int) ([]models.Measurement, int64, error) {
	return s.repo.FetchPage(ownerID, offset, limit)
}

func (s *repositorySource) Insert(measurement *models.Measurement) (*models.Measurement, error) {
	if err := s.repo.Create(measurement); err != nil {
		return nil, err
	}
	return measurement, nil
}

func (s *repositorySource) Delete(id uint) error {
	return s.repo.Delete(id)
}
