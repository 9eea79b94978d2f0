package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/models"
)

// SubjectRepository provides read access to subject and paper configuration.
type SubjectRepository interface {
	ListActive(ctx context.Context) ([]models.Subject, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

// ListActive returns active subjects with their papers preloaded, in a
// stable order so compulsory selection is first-come deterministic.
func (r *subjectRepository) ListActive(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).
		Preload("Papers").
		Where("active = ?", true).
		Order("id ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}

	return subjects, nil
}
