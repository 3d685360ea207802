package repository

import (
	"context"

	"psymap-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormResponseStore struct {
	db *gorm.DB
}

func NewGormResponseStore(db *gorm.DB) *GormResponseStore {
	return &GormResponseStore{db: db}
}

// Upsert relies on the unique (session_id, question_code) index: last write
// wins, a resubmission never creates a second row.
func (s *GormResponseStore) Upsert(ctx context.Context, response *models.UserResponse) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "response_time_ms", "updated_at"}),
		}).
		Create(response).Error
}

func (s *GormResponseStore) ListBySession(ctx context.Context, sessionID string) ([]models.UserResponse, error) {
	var responses []models.UserResponse
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&responses).Error
	return responses, err
}

func (s *GormResponseStore) ListBySessionAndQuestions(ctx context.Context, sessionID string, questionCodes []string) ([]models.UserResponse, error) {
	if len(questionCodes) == 0 {
		return nil, nil
	}
	var responses []models.UserResponse
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND question_code IN ?", sessionID, questionCodes).
		Find(&responses).Error
	return responses, err
}
