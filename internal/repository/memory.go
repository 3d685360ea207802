package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"psymap-go/internal/models"
)

// In-memory stores back demo sessions (and tests). They implement the same
// interfaces as the Postgres stores so the orchestrator does not branch on
// the backing.

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.AssessmentSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.AssessmentSession)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.AssessmentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.AssessmentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) ListByUser(_ context.Context, userID uint) ([]models.AssessmentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AssessmentSession
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (s *MemorySessionStore) Advance(_ context.Context, id string, fromIndex, toIndex int, status models.SessionStatus, completedAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.CurrentTestIndex != fromIndex {
		return false, nil
	}
	session.CurrentTestIndex = toIndex
	session.Status = status
	session.CompletedAt = completedAt
	session.LastActivityAt = time.Now().UTC()
	s.sessions[id] = session
	return true, nil
}

func (s *MemorySessionStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.LastActivityAt = time.Now().UTC()
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) SetStatus(_ context.Context, id string, status models.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.Status = status
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) ListIdle(_ context.Context, before time.Time) ([]models.AssessmentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AssessmentSession
	for _, session := range s.sessions {
		if !session.Status.Terminal() && session.LastActivityAt.Before(before) {
			out = append(out, session)
		}
	}
	return out, nil
}

type MemoryResponseStore struct {
	mu        sync.RWMutex
	responses map[string]map[string]models.UserResponse // sessionID → questionCode → response
}

func NewMemoryResponseStore() *MemoryResponseStore {
	return &MemoryResponseStore{responses: make(map[string]map[string]models.UserResponse)}
}

func (s *MemoryResponseStore) Upsert(_ context.Context, response *models.UserResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySession, ok := s.responses[response.SessionID]
	if !ok {
		bySession = make(map[string]models.UserResponse)
		s.responses[response.SessionID] = bySession
	}
	response.UpdatedAt = time.Now().UTC()
	bySession[response.QuestionCode] = *response
	return nil
}

func (s *MemoryResponseStore) ListBySession(_ context.Context, sessionID string) ([]models.UserResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.UserResponse
	for _, r := range s.responses[sessionID] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryResponseStore) ListBySessionAndQuestions(_ context.Context, sessionID string, questionCodes []string) ([]models.UserResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bySession := s.responses[sessionID]
	var out []models.UserResponse
	for _, code := range questionCodes {
		if r, ok := bySession[code]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type MemoryResultStore struct {
	mu      sync.RWMutex
	results map[string]map[uint]models.AssessmentResult // sessionID → testTypeID → result
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{results: make(map[string]map[uint]models.AssessmentResult)}
}

func (s *MemoryResultStore) Upsert(_ context.Context, result *models.AssessmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySession, ok := s.results[result.SessionID]
	if !ok {
		bySession = make(map[uint]models.AssessmentResult)
		s.results[result.SessionID] = bySession
	}
	if existing, ok := bySession[result.TestTypeID]; ok {
		result.CreatedAt = existing.CreatedAt
	} else if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	bySession[result.TestTypeID] = *result
	return nil
}

func (s *MemoryResultStore) ListBySession(_ context.Context, sessionID string) ([]models.AssessmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AssessmentResult
	for _, r := range s.results[sessionID] {
		out = append(out, r)
	}
	return out, nil
}

// NewMemoryStores bundles fresh in-memory stores, the backing used for demo
// sessions.
func NewMemoryStores() Stores {
	return Stores{
		Sessions:  NewMemorySessionStore(),
		Responses: NewMemoryResponseStore(),
		Results:   NewMemoryResultStore(),
	}
}
