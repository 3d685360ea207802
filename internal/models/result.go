package models

import "time"

// Recommendation is one derived guidance entry for a scored test.
type Recommendation struct {
	Category    string `json:"category"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AssessmentResult holds the scored outcome of one test within a session,
// unique per (session, test type). Re-completing a test slot overwrites the
// row rather than appending a second one.
type AssessmentResult struct {
	ID         uint     `gorm:"primaryKey" json:"-"`
	SessionID  string   `gorm:"index:idx_results_session_test,unique" json:"sessionId"`
	TestTypeID uint     `gorm:"index:idx_results_session_test,unique" json:"-"`
	TestType   TestType `json:"testType"`
	// RawScores are the unnormalized per-category accumulations;
	// ProcessedScores are the same categories on a 0-100 scale.
	RawScores       map[string]float64 `gorm:"type:jsonb;serializer:json" json:"rawScores"`
	ProcessedScores map[string]float64 `gorm:"type:jsonb;serializer:json" json:"processedScores"`
	Recommendations []Recommendation   `gorm:"type:jsonb;serializer:json" json:"recommendations"`
	PercentileRanks map[string]float64 `gorm:"type:jsonb;serializer:json" json:"percentileRanks,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"-"`
}
