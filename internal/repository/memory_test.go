package repository

import (
	"context"
	"testing"
	"time"

	"psymap-go/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MemoryStoresSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
}

func (s *MemoryStoresSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = NewMemoryStores()
}

func TestMemoryStoresSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoresSuite))
}

func (s *MemoryStoresSuite) newSession(userID uint) *models.AssessmentSession {
	now := time.Now().UTC()
	return &models.AssessmentSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		ConfigurationID: 1,
		Status:          models.StatusStarted,
		TotalTests:      3,
		StartedAt:       now,
		LastActivityAt:  now,
	}
}

func (s *MemoryStoresSuite) TestSessionLifecycle() {
	s.Run("creates and retrieves", func() {
		session := s.newSession(1)
		s.Require().NoError(s.stores.Sessions.Create(s.ctx, session))

		found, err := s.stores.Sessions.Get(s.ctx, session.ID)
		s.Require().NoError(err)
		s.Equal(session.ID, found.ID)
		s.Equal(models.StatusStarted, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.stores.Sessions.Get(s.ctx, "missing")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("retrieved session is a copy", func() {
		session := s.newSession(1)
		s.Require().NoError(s.stores.Sessions.Create(s.ctx, session))

		found, err := s.stores.Sessions.Get(s.ctx, session.ID)
		s.Require().NoError(err)
		found.CurrentTestIndex = 99

		again, err := s.stores.Sessions.Get(s.ctx, session.ID)
		s.Require().NoError(err)
		s.Equal(0, again.CurrentTestIndex, "mutating a loaded session must not leak into the store")
	})
}

func (s *MemoryStoresSuite) TestAdvanceCompareAndSet() {
	session := s.newSession(1)
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, session))

	advanced, err := s.stores.Sessions.Advance(s.ctx, session.ID, 0, 1, models.StatusInProgress, nil)
	s.Require().NoError(err)
	s.True(advanced)

	// A second advance from the same stale index loses the race.
	advanced, err = s.stores.Sessions.Advance(s.ctx, session.ID, 0, 1, models.StatusInProgress, nil)
	s.Require().NoError(err)
	s.False(advanced)

	found, err := s.stores.Sessions.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(1, found.CurrentTestIndex, "the losing advance must not move the index")

	now := time.Now().UTC()
	advanced, err = s.stores.Sessions.Advance(s.ctx, session.ID, 1, 2, models.StatusCompleted, &now)
	s.Require().NoError(err)
	s.True(advanced)

	found, err = s.stores.Sessions.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, found.Status)
	s.NotNil(found.CompletedAt)
}

func (s *MemoryStoresSuite) TestListByUserNewestFirst() {
	first := s.newSession(7)
	first.StartedAt = time.Now().UTC().Add(-time.Hour)
	second := s.newSession(7)
	other := s.newSession(8)
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, first))
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, second))
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, other))

	sessions, err := s.stores.Sessions.ListByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(second.ID, sessions[0].ID)
	s.Equal(first.ID, sessions[1].ID)
}

func (s *MemoryStoresSuite) TestListIdle() {
	stale := s.newSession(1)
	stale.LastActivityAt = time.Now().UTC().Add(-2 * time.Hour)
	fresh := s.newSession(1)
	done := s.newSession(1)
	done.Status = models.StatusCompleted
	done.LastActivityAt = stale.LastActivityAt
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, stale))
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, fresh))
	s.Require().NoError(s.stores.Sessions.Create(s.ctx, done))

	idle, err := s.stores.Sessions.ListIdle(s.ctx, time.Now().UTC().Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().Len(idle, 1, "terminal and recently active sessions are excluded")
	s.Equal(stale.ID, idle[0].ID)

	s.Require().NoError(s.stores.Sessions.SetStatus(s.ctx, stale.ID, models.StatusAbandoned))
	found, err := s.stores.Sessions.Get(s.ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAbandoned, found.Status)
}

func (s *MemoryStoresSuite) TestResponseUpsertOverwrites() {
	sessionID := "demo-" + uuid.NewString()

	s.Require().NoError(s.stores.Responses.Upsert(s.ctx, &models.UserResponse{
		SessionID: sessionID, QuestionCode: "q1", Value: "2",
	}))
	s.Require().NoError(s.stores.Responses.Upsert(s.ctx, &models.UserResponse{
		SessionID: sessionID, QuestionCode: "q1", Value: "5",
	}))
	s.Require().NoError(s.stores.Responses.Upsert(s.ctx, &models.UserResponse{
		SessionID: sessionID, QuestionCode: "q2", Value: "3",
	}))

	responses, err := s.stores.Responses.ListBySession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(responses, 2, "resubmission overwrites rather than duplicates")

	byCode := make(map[string]string, len(responses))
	for _, r := range responses {
		byCode[r.QuestionCode] = r.Value
	}
	s.Equal("5", byCode["q1"])
	s.Equal("3", byCode["q2"])
}

func (s *MemoryStoresSuite) TestListBySessionAndQuestions() {
	sessionID := uuid.NewString()
	for _, code := range []string{"q1", "q2", "q3"} {
		s.Require().NoError(s.stores.Responses.Upsert(s.ctx, &models.UserResponse{
			SessionID: sessionID, QuestionCode: code, Value: "1",
		}))
	}

	responses, err := s.stores.Responses.ListBySessionAndQuestions(s.ctx, sessionID, []string{"q1", "q3", "q9"})
	s.Require().NoError(err)
	s.Len(responses, 2)
}

func (s *MemoryStoresSuite) TestResultUpsert() {
	sessionID := uuid.NewString()

	s.Require().NoError(s.stores.Results.Upsert(s.ctx, &models.AssessmentResult{
		SessionID:       sessionID,
		TestTypeID:      1,
		ProcessedScores: map[string]float64{"visual": 40},
	}))
	first, err := s.stores.Results.ListBySession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	s.Require().NoError(s.stores.Results.Upsert(s.ctx, &models.AssessmentResult{
		SessionID:       sessionID,
		TestTypeID:      1,
		ProcessedScores: map[string]float64{"visual": 80},
	}))
	second, err := s.stores.Results.ListBySession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(second, 1, "re-completing a test slot overwrites its result")
	s.Equal(80.0, second[0].ProcessedScores["visual"])
	s.Equal(first[0].CreatedAt, second[0].CreatedAt, "overwrite keeps the original creation time")
}
