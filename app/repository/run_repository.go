package repository

import (
	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new optimization run repository instance
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

// Create records a completed optimization run
func (r *runRepository) Create(run *models.OptimizationRun) error {
	return r.db.Create(run).Error
}

// ListByUserID retrieves the most recent runs of a user
func (r *runRepository) ListByUserID(userID uint, limit int) ([]models.OptimizationRun, error) {
	var runs []models.OptimizationRun
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
