package repository

import (
	"context"
	"errors"
	"time"

	"psymap-go/internal/models"
)

// ErrNotFound is returned by every store when the requested record does not
// exist. Callers check it with errors.Is.
var ErrNotFound = errors.New("record not found")

// SessionStore persists assessment sessions. The production implementation
// is backed by Postgres; demo sessions use the in-memory one behind the same
// interface.
type SessionStore interface {
	Create(ctx context.Context, session *models.AssessmentSession) error
	Get(ctx context.Context, id string) (*models.AssessmentSession, error)
	ListByUser(ctx context.Context, userID uint) ([]models.AssessmentSession, error)
	// Advance moves the session's test index from fromIndex to toIndex and
	// applies the given status in one conditional write. It reports false
	// when the session no longer points at fromIndex, which is how a
	// concurrent duplicate completion is detected.
	Advance(ctx context.Context, id string, fromIndex, toIndex int, status models.SessionStatus, completedAt *time.Time) (bool, error)
	// Touch bumps the session's activity timestamp.
	Touch(ctx context.Context, id string) error
	// SetStatus applies a status without touching the index. Used by
	// out-of-band maintenance (abandoned/expired).
	SetStatus(ctx context.Context, id string, status models.SessionStatus) error
	// ListIdle returns non-terminal sessions with no activity since the
	// given time.
	ListIdle(ctx context.Context, before time.Time) ([]models.AssessmentSession, error)
}

type ResponseStore interface {
	// Upsert saves a response keyed by (session, question); a second write
	// for the same key overwrites the first.
	Upsert(ctx context.Context, response *models.UserResponse) error
	ListBySession(ctx context.Context, sessionID string) ([]models.UserResponse, error)
	ListBySessionAndQuestions(ctx context.Context, sessionID string, questionCodes []string) ([]models.UserResponse, error)
}

type ResultStore interface {
	// Upsert saves a result keyed by (session, test type); re-completing a
	// test slot overwrites rather than duplicating.
	Upsert(ctx context.Context, result *models.AssessmentResult) error
	ListBySession(ctx context.Context, sessionID string) ([]models.AssessmentResult, error)
}

// CatalogStore reads configurations, test types and questions. The catalog
// is read-only during a session.
type CatalogStore interface {
	GetConfiguration(ctx context.Context, id uint) (*models.Configuration, error)
	GetConfigurationBySlug(ctx context.Context, slug string) (*models.Configuration, error)
	ListActiveConfigurations(ctx context.Context) ([]models.Configuration, error)
	GetTestType(ctx context.Context, id uint) (*models.TestType, error)
	GetTestTypeBySlug(ctx context.Context, slug string) (*models.TestType, error)
	ListActiveQuestions(ctx context.Context, testTypeID uint) ([]models.Question, error)
}

// Stores bundles the per-session stores so the orchestrator can swap the
// whole backing at once (persistent vs ephemeral demo).
type Stores struct {
	Sessions  SessionStore
	Responses ResponseStore
	Results   ResultStore
}
