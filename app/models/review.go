package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ServiceReview is a user rating for a service.
type ServiceReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Rating    int       `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Comment   string    `gorm:"type:text" json:"comment" validate:"max=2000"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *ServiceReview) Validate() error {
	v := validator.New()
	return v.Struct(r)
}
