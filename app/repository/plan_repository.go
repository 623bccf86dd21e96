package repository

import (
	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create creates a new plan in the database
func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

// GetByServiceID retrieves the active plans of one service, cheapest first
func (r *planRepository) GetByServiceID(serviceID uint) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Preload("Service").
		Where("service_id = ? AND is_active = ?", serviceID, true).
		Order("monthly_price ASC").Find(&plans).Error
	return plans, err
}

// GetActiveByCategories bulk-loads every active plan of every active service
// in the given categories. One query serves a whole optimizer run.
func (r *planRepository) GetActiveByCategories(categories []string) ([]models.Plan, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	var plans []models.Plan
	err := r.db.Preload("Service").
		Joins("JOIN services ON services.id = plans.service_id").
		Where("services.category IN ? AND services.is_active = ? AND plans.is_active = ?", categories, true, true).
		Order("plans.service_id ASC, plans.monthly_price ASC").
		Find(&plans).Error
	return plans, err
}
