package models

import (
	"strings"
	"time"
)

type SessionStatus string

const (
	StatusStarted    SessionStatus = "started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
	StatusExpired    SessionStatus = "expired"
)

// Terminal reports whether no further mutation of the session is allowed.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusAbandoned, StatusExpired:
		return true
	}
	return false
}

// DemoSessionPrefix marks ephemeral sessions that never touch the database.
const DemoSessionPrefix = "demo-"

// AssessmentSession is one user's run through a configuration's test
// sequence. CurrentTestIndex is the 0-based position into the ordered
// sequence; status is completed exactly when it reaches TotalTests.
type AssessmentSession struct {
	ID               string        `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"index" json:"userId"`
	ConfigurationID  uint          `json:"configurationId"`
	Configuration    Configuration `json:"-"`
	Status           SessionStatus `gorm:"index" json:"status"`
	CurrentTestIndex int           `json:"currentTestIndex"`
	TotalTests       int           `json:"totalTests"`
	StartedAt        time.Time     `json:"startedAt"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	LastActivityAt   time.Time     `json:"lastActivityAt"`
	CreatedAt        time.Time     `json:"-"`
	UpdatedAt        time.Time     `json:"-"`
}

// IsDemo reports whether the session is an ephemeral demo session.
func (s *AssessmentSession) IsDemo() bool {
	return IsDemoSessionID(s.ID)
}

func IsDemoSessionID(id string) bool {
	return strings.HasPrefix(id, DemoSessionPrefix)
}

// UserResponse is one submitted answer, unique per (session, question).
// Resubmission overwrites; responses are never deleted while the session is
// active.
type UserResponse struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	SessionID      string    `gorm:"index:idx_responses_session_question,unique" json:"sessionId"`
	QuestionCode   string    `gorm:"index:idx_responses_session_question,unique" json:"questionId"`
	Value          string    `json:"value"`
	ResponseTimeMs *int      `json:"responseTimeMs,omitempty"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"submittedAt"`
}
