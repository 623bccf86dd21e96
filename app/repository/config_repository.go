package repository

import (
	"errors"

	"github.com/subpilot/subpilot/app/models"
	"gorm.io/gorm"
)

// configRepository implements the ConfigRepository interface
type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new config repository instance
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// FindActiveOverride retrieves the active override row for a key, nil when none
func (r *configRepository) FindActiveOverride(key string) (*models.ConfigOverride, error) {
	return activeOverride(r.db, key)
}

// FindActiveOverrides retrieves every active override row
func (r *configRepository) FindActiveOverrides() ([]models.ConfigOverride, error) {
	return activeOverrides(r.db)
}

// RecentAudits retrieves audit entries newest-first
func (r *configRepository) RecentAudits(limit int) ([]models.ConfigAudit, error) {
	var audits []models.ConfigAudit
	err := r.db.Order("id DESC").Limit(limit).Find(&audits).Error
	return audits, err
}

// RecentAuditsByKey retrieves audit entries for one key newest-first
func (r *configRepository) RecentAuditsByKey(key string, limit int) ([]models.ConfigAudit, error) {
	var audits []models.ConfigAudit
	err := r.db.Where("config_key = ?", key).
		Order("id DESC").Limit(limit).Find(&audits).Error
	return audits, err
}

// Mutate runs fn against a transaction-scoped mutation view. Override and
// audit writes commit as one unit; any error rolls the whole batch back.
func (r *configRepository) Mutate(fn func(ConfigMutation) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&configMutation{db: tx})
	})
}

// configMutation implements ConfigMutation on top of one GORM transaction
type configMutation struct {
	db *gorm.DB
}

func (m *configMutation) ActiveOverride(key string) (*models.ConfigOverride, error) {
	return activeOverride(m.db, key)
}

func (m *configMutation) ActiveOverrides() ([]models.ConfigOverride, error) {
	return activeOverrides(m.db)
}

func (m *configMutation) AuditsByKeyDesc(key string) ([]models.ConfigAudit, error) {
	var audits []models.ConfigAudit
	err := m.db.Where("config_key = ?", key).Order("id DESC").Find(&audits).Error
	return audits, err
}

// UpsertOverride updates the active row in place, or creates a fresh row when
// none is active (earlier deactivated rows stay untouched as history).
func (m *configMutation) UpsertOverride(key, value string) (*string, bool, error) {
	row, err := activeOverride(m.db, key)
	if err != nil {
		return nil, false, err
	}
	if row != nil {
		if row.Value == value {
			before := row.Value
			return &before, false, nil
		}
		before := row.Value
		row.Value = value
		if err := m.db.Save(row).Error; err != nil {
			return nil, false, err
		}
		return &before, true, nil
	}

	created := models.ConfigOverride{ConfigKey: key, Value: value, IsActive: true}
	if err := m.db.Create(&created).Error; err != nil {
		return nil, false, err
	}
	return nil, true, nil
}

func (m *configMutation) DeactivateOverride(key string) (*string, error) {
	row, err := activeOverride(m.db, key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	before := row.Value
	row.IsActive = false
	if err := m.db.Save(row).Error; err != nil {
		return nil, err
	}
	return &before, nil
}

func (m *configMutation) AppendAudit(audit *models.ConfigAudit) error {
	return m.db.Create(audit).Error
}

func activeOverride(db *gorm.DB, key string) (*models.ConfigOverride, error) {
	var row models.ConfigOverride
	err := db.Where("config_key = ? AND is_active = ?", key, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func activeOverrides(db *gorm.DB) ([]models.ConfigOverride, error) {
	var rows []models.ConfigOverride
	err := db.Where("is_active = ?", true).Order("config_key ASC").Find(&rows).Error
	return rows, err
}
