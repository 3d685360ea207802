package repository

import (
	"context"

	"psymap-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormResultStore struct {
	db *gorm.DB
}

func NewGormResultStore(db *gorm.DB) *GormResultStore {
	return &GormResultStore{db: db}
}

// Upsert writes the result for (session, test type), overwriting any earlier
// row so an idempotent recomputation never duplicates.
func (s *GormResultStore) Upsert(ctx context.Context, result *models.AssessmentResult) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "test_type_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"raw_scores", "processed_scores", "recommendations", "percentile_ranks", "updated_at",
			}),
		}).
		Create(result).Error
}

func (s *GormResultStore) ListBySession(ctx context.Context, sessionID string) ([]models.AssessmentResult, error) {
	var results []models.AssessmentResult
	err := s.db.WithContext(ctx).
		Preload("TestType").
		Where("session_id = ?", sessionID).
		Find(&results).Error
	return results, err
}
