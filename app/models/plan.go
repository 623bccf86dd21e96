package models

import "time"

// Plan is a bookable price point of a service. Prices are stored per month
// in minor currency units; yearly billed subscriptions are normalized by the
// optimizer before comparison.
type Plan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ServiceID    uint      `gorm:"not null;index" json:"service_id"`
	Service      Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	MonthlyPrice int64     `gorm:"not null" json:"monthly_price" validate:"gte=0"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
