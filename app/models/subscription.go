package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	BillingCycleMonthly = "MONTHLY"
	BillingCycleYearly  = "YEARLY"
)

// Subscription is one recurring paid subscription of a user. Price is the
// amount charged per billing cycle in minor currency units, so a YEARLY
// subscription carries the full yearly price.
type Subscription struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ServiceID    uint       `gorm:"not null;index" json:"service_id"`
	Service      Service    `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	PlanName     string     `gorm:"type:varchar(150)" json:"plan_name" validate:"max=150"`
	Price        int64      `gorm:"not null" json:"price" validate:"gte=0"`
	BillingCycle string     `gorm:"type:varchar(16);not null;default:'MONTHLY'" json:"billing_cycle" validate:"oneof=MONTHLY YEARLY"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	StartedAt    *time.Time `gorm:"type:timestamp;default:null" json:"started_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) Validate() error {
	v := validator.New()
	return v.Struct(s)
}
