package models

import "time"

// Student statuses.
const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

// Student represents a learner whose exam results are aggregated.
type Student struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	AdmissionNo string    `gorm:"size:64;uniqueIndex;not null" json:"admission_no"`
	ClassID     uint      `gorm:"index;not null" json:"class_id"`
	Stream      string    `gorm:"size:64" json:"stream"`
	Status      string    `gorm:"size:32;default:active" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SchoolClass represents a class (form or grade level) within a school.
type SchoolClass struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
