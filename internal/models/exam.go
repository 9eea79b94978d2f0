package models

import (
	"time"

	"gorm.io/gorm"
)

// Exam represents one sitting for a class in a given term and year.
// MinSubjects is the fixed denominator used for average marks and mean
// points regardless of how many subjects a student qualified in.
type Exam struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	ClassID         uint      `gorm:"index;not null" json:"class_id"`
	Term            int       `gorm:"not null" json:"term"`
	Year            int       `gorm:"not null" json:"year"`
	GradingSystemID uint      `gorm:"index;not null" json:"grading_system_id"`
	MinSubjects     int       `gorm:"not null" json:"min_subjects"`
	Confirmed       bool      `gorm:"not null;default:false" json:"confirmed"`
	Closed          bool      `gorm:"not null;default:false" json:"closed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RawResult is one confirmed score for (student, exam, subject, optional paper).
// Unconfirmed rows, rows without a score, and soft-deleted rows never enter
// aggregation.
type RawResult struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID uint           `gorm:"index;not null" json:"student_id"`
	ExamID    uint           `gorm:"index;not null" json:"exam_id"`
	SubjectID uint           `gorm:"index;not null" json:"subject_id"`
	PaperID   *uint          `gorm:"index" json:"paper_id"`
	Score     *float64       `json:"score"`
	Confirmed bool           `gorm:"not null;default:false" json:"confirmed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Countable reports whether the row may participate in aggregation.
func (r RawResult) Countable() bool {
	return r.Confirmed && r.Score != nil
}
