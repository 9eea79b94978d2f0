package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/matokeo-api/internal/models"
)

// GradingRepository loads grading rule tables. Rules are fetched once per
// grading system; lookups then happen in memory inside the engine.
type GradingRepository interface {
	ListRules(ctx context.Context, gradingSystemID uint) ([]models.GradingRule, error)
}

type gradingRepository struct {
	db *gorm.DB
}

// NewGradingRepository constructs a grading repository.
func NewGradingRepository(db *gorm.DB) GradingRepository {
	return &gradingRepository{db: db}
}

func (r *gradingRepository) ListRules(ctx context.Context, gradingSystemID uint) ([]models.GradingRule, error) {
	var rules []models.GradingRule
	if err := r.db.WithContext(ctx).
		Where("grading_system_id = ?", gradingSystemID).
		Order("max_score DESC").
		Find(&rules).Error; err != nil {
		return nil, err
	}

	return rules, nil
}
