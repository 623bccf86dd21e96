package models

import "time"

const (
	ConfigActionUpsert      = "UPSERT"
	ConfigActionDeactivate  = "DEACTIVATE"
	ConfigActionRollbackAll = "ROLLBACK_ALL"
	ConfigActionRollbackKey = "ROLLBACK_KEY"
)

// ConfigAudit is one append-only entry of the policy override audit trail.
// Rows are never updated or deleted; the auto-increment ID is the ordering.
// A nil BeforeValue means "no override was active", a nil AfterValue means
// "the override was removed".
type ConfigAudit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConfigKey   string    `gorm:"column:config_key;type:varchar(100);not null;index" json:"config_key"`
	BeforeValue *string   `gorm:"type:varchar(255)" json:"before_value"`
	AfterValue  *string   `gorm:"type:varchar(255)" json:"after_value"`
	ActionType  string    `gorm:"type:varchar(20);not null" json:"action_type"`
	Actor       string    `gorm:"type:varchar(150);not null" json:"actor"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
