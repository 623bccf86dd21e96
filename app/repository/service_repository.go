package repository

import (
	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// serviceRepository implements the ServiceRepository interface
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository instance
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// Create creates a new service in the database
func (r *serviceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

// GetByID retrieves a service by its ID
func (r *serviceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// GetByName retrieves a service by its unique name
func (r *serviceRepository) GetByName(name string) (*models.Service, error) {
	var service models.Service
	err := r.db.Where("name = ?", name).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// ListActive retrieves all active services ordered by name
func (r *serviceRepository) ListActive() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&services).Error
	return services, err
}
