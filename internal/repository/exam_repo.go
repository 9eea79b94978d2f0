package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/models"
)

// ExamRepository provides read access to exam metadata.
type ExamRepository interface {
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	ListHistoryByClassIDs(ctx context.Context, classIDs []uint) ([]models.Exam, error)
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository constructs an exam repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

// ListHistoryByClassIDs returns the closed, confirmed exams for the given
// classes in chronological order, the raw material for trend building.
func (r *examRepository) ListHistoryByClassIDs(ctx context.Context, classIDs []uint) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Where("confirmed = ?", true).
		Where("closed = ?", true).
		Order("year ASC, term ASC, id ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}
