package models

import "time"

// SubjectType distinguishes subjects that must count toward the aggregate
// from those competing for elective slots.
type SubjectType string

// Subject types.
const (
	SubjectTypeCompulsory SubjectType = "compulsory"
	SubjectTypeElective   SubjectType = "elective"
)

// Subject represents a taught subject, optionally examined through multiple papers.
type Subject struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"size:128;not null" json:"name"`
	Code       string      `gorm:"size:32;uniqueIndex" json:"code"`
	Type       SubjectType `gorm:"size:32;not null;default:compulsory" json:"type"`
	UsesPapers bool        `gorm:"not null;default:false" json:"uses_papers"`
	Active     bool        `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Papers     []Paper     `json:"papers,omitempty"`
}

// Paper represents one examined component of a subject. WeightPct is the
// paper's contribution toward the subject composite; weights for a subject
// are expected to sum to 100 and are normalized when they do not.
type Paper struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"index;not null" json:"subject_id"`
	Code      string    `gorm:"size:32" json:"code"`
	MaxScore  float64   `gorm:"not null" json:"max_score"`
	WeightPct float64   `gorm:"not null" json:"weight_pct"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
