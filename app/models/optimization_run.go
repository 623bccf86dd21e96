package models

import "time"

// OptimizationRun records one optimizer invocation for a user. Rows are only
// written while tracking.enabled is on.
type OptimizationRun struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	RunID                 string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"run_id"`
	UserID                uint      `gorm:"not null;index" json:"user_id"`
	CandidateCount        int       `gorm:"not null" json:"candidate_count"`
	SelectedCount         int       `gorm:"not null" json:"selected_count"`
	TotalPotentialSavings int64     `gorm:"not null" json:"total_potential_savings"`
	DurationMs            int64     `gorm:"not null" json:"duration_ms"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
}
