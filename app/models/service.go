package models

import "time"

const (
	CategoryVideo = "VIDEO"
	CategoryMusic = "MUSIC"
	CategoryCloud = "CLOUD"
	CategoryBooks = "BOOKS"
	CategoryOther = "OTHER"
)

// Service is a subscribable provider (streaming service, cloud storage, ...)
// grouped into a category used for duplicate detection and alternative search.
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"name" validate:"required,min=1,max=150"`
	Category  string    `gorm:"type:varchar(50);not null;index" json:"category" validate:"required,max=50"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`

	// RecommendationCount is drained from Redis in batches, not written per request
	RecommendationCount int64     `gorm:"default:0" json:"recommendation_count"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
