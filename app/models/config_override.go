package models

import "time"

// ConfigOverride is an admin-set value for one optimizer policy key, taking
// precedence over the compiled-in default. At most one row per key is active;
// superseded rows are deactivated instead of deleted so the rollback path has
// history to recover.
type ConfigOverride struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ConfigKey string    `gorm:"column:config_key;type:varchar(100);not null;index" json:"config_key" validate:"required,max=100"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
