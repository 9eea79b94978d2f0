package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/models"
)

// ResultRepository provides read access to confirmed raw exam results.
// Soft-deleted rows never surface; gorm filters them on every query.
type ResultRepository interface {
	ListConfirmedByExam(ctx context.Context, examID uint) ([]models.RawResult, error)
	ListClassIDsByStudent(ctx context.Context, studentID uint) ([]uint, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository constructs a result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) ListConfirmedByExam(ctx context.Context, examID uint) ([]models.RawResult, error) {
	var results []models.RawResult
	if err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Where("confirmed = ?", true).
		Where("score IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// ListClassIDsByStudent collects the distinct classes whose exams the student
// has confirmed results in. A promoted student keeps their earlier classes
// here, which lets history lookups span the whole enrollment.
func (r *resultRepository) ListClassIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var classIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.RawResult{}).
		Joins("JOIN exams ON exams.id = raw_results.exam_id").
		Where("raw_results.student_id = ?", studentID).
		Where("raw_results.confirmed = ?", true).
		Distinct().
		Pluck("exams.class_id", &classIDs).Error; err != nil {
		return nil, err
	}

	return classIDs, nil
}
