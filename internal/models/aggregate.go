package models

import "time"

// SubjectAggregate is the persisted form of a computed per-subject result.
// The engine only produces these; storing them is the caller's decision and
// they can always be re-derived from raw results.
type SubjectAggregate struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"index;not null" json:"student_id"`
	ExamID         uint      `gorm:"index;not null" json:"exam_id"`
	SubjectID      uint      `gorm:"index;not null" json:"subject_id"`
	CompositeScore float64   `gorm:"not null" json:"composite_score"`
	Grade          string    `gorm:"size:8" json:"grade"`
	Points         float64   `gorm:"not null" json:"points"`
	Selected       bool      `gorm:"not null;default:false" json:"selected"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StudentAggregate is the persisted form of a computed per-student result.
type StudentAggregate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"index;not null" json:"student_id"`
	ExamID       uint      `gorm:"index;not null" json:"exam_id"`
	TotalMarks   float64   `gorm:"not null" json:"total_marks"`
	TotalPoints  float64   `gorm:"not null" json:"total_points"`
	AverageMarks float64   `gorm:"not null" json:"average_marks"`
	MeanPoints   float64   `gorm:"not null" json:"mean_points"`
	Grade        string    `gorm:"size:8" json:"grade"`
	ClassRank    int       `gorm:"not null" json:"class_rank"`
	StreamRank   int       `gorm:"not null" json:"stream_rank"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
