package repository

import (
	"context"
	"errors"
	"time"

	"psymap-go/internal/models"

	"gorm.io/gorm"
)

type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Create(ctx context.Context, session *models.AssessmentSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *GormSessionStore) Get(ctx context.Context, id string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *GormSessionStore) ListByUser(ctx context.Context, userID uint) ([]models.AssessmentSession, error) {
	var sessions []models.AssessmentSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormSessionStore) Advance(ctx context.Context, id string, fromIndex, toIndex int, status models.SessionStatus, completedAt *time.Time) (bool, error) {
	// The WHERE on current_test_index makes the advance a compare-and-set:
	// a concurrent completion of the same slot updates zero rows.
	res := s.db.WithContext(ctx).
		Model(&models.AssessmentSession{}).
		Where("id = ? AND current_test_index = ?", id, fromIndex).
		Updates(map[string]interface{}{
			"current_test_index": toIndex,
			"status":             status,
			"completed_at":       completedAt,
			"last_activity_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormSessionStore) Touch(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.AssessmentSession{}).
		Where("id = ?", id).
		Update("last_activity_at", time.Now().UTC()).Error
}

func (s *GormSessionStore) SetStatus(ctx context.Context, id string, status models.SessionStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.AssessmentSession{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *GormSessionStore) ListIdle(ctx context.Context, before time.Time) ([]models.AssessmentSession, error) {
	var sessions []models.AssessmentSession
	err := s.db.WithContext(ctx).
		Where("status IN ? AND last_activity_at < ?",
			[]models.SessionStatus{models.StatusStarted, models.StatusInProgress}, before).
		Find(&sessions).Error
	return sessions, err
}
