package models

import "time"

// GradingSystem is a named, school-scoped set of grading rules.
type GradingSystem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GradingRule maps a closed score interval [MinScore, MaxScore], or an exact
// Points value for points-based lookup, to a letter grade. Placeholder rules
// ("absent", "exempt" and similar sentinels) are excluded from fallback
// resolution.
type GradingRule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GradingSystemID uint      `gorm:"index;not null" json:"grading_system_id"`
	MinScore        float64   `gorm:"not null" json:"min_score"`
	MaxScore        float64   `gorm:"not null" json:"max_score"`
	Grade           string    `gorm:"size:8;not null" json:"grade"`
	Points          float64   `gorm:"not null" json:"points"`
	Placeholder     bool      `gorm:"not null;default:false" json:"placeholder"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
