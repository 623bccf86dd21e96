package repository

import (
	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// reviewRepository implements the ReviewRepository interface
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository instance
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review in the database
func (r *reviewRepository) Create(review *models.ServiceReview) error {
	return r.db.Create(review).Error
}

// ListByServiceID retrieves reviews for a service with pagination, newest first
func (r *reviewRepository) ListByServiceID(serviceID uint, offset, limit int) ([]models.ServiceReview, error) {
	var reviews []models.ServiceReview
	err := r.db.Preload("User").Where("service_id = ?", serviceID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	return reviews, err
}

// AverageRating computes the mean rating of a service, 0 when unrated
func (r *reviewRepository) AverageRating(serviceID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.ServiceReview{}).
		Select("AVG(rating)").Where("service_id = ?", serviceID).Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
