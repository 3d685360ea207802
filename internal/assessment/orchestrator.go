package assessment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"psymap-go/internal/models"
	"psymap-go/internal/repository"
	"psymap-go/internal/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsReporter is injected rather than reached through a package global,
// so tests and alternate deployments can swap it.
type MetricsReporter interface {
	SessionStarted(demo bool)
	ResponseRecorded()
	TestCompleted(testType string)
	AssessmentCompleted()
	CompletionConflict()
}

// NopMetrics discards every report.
type NopMetrics struct{}

func (NopMetrics) SessionStarted(bool)  {}
func (NopMetrics) ResponseRecorded()    {}
func (NopMetrics) TestCompleted(string) {}
func (NopMetrics) AssessmentCompleted() {}
func (NopMetrics) CompletionConflict()  {}

// CompletionOutcome is what CompleteCurrentTest reports back to the caller.
type CompletionOutcome struct {
	HasNextTest          bool `json:"hasNextTest"`
	NextTestIndex        int  `json:"nextTestIndex"`
	IsAssessmentComplete bool `json:"isAssessmentComplete"`
}

// Orchestrator drives a user through a configuration's ordered test
// sequence: it owns the session lifecycle, delegates scoring to the strategy
// registry and persists results. Demo sessions ("demo-" prefixed IDs) run
// the same state machine against in-memory stores.
type Orchestrator struct {
	log      *zap.Logger
	catalog  repository.CatalogStore
	store    repository.Stores
	demo     repository.Stores
	registry *scoring.Registry
	metrics  MetricsReporter
}

func NewOrchestrator(
	log *zap.Logger,
	catalog repository.CatalogStore,
	store repository.Stores,
	demo repository.Stores,
	registry *scoring.Registry,
	metrics MetricsReporter,
) *Orchestrator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Orchestrator{
		log:      log,
		catalog:  catalog,
		store:    store,
		demo:     demo,
		registry: registry,
		metrics:  metrics,
	}
}

// storesFor routes a session ID to its backing stores.
func (o *Orchestrator) storesFor(sessionID string) repository.Stores {
	if models.IsDemoSessionID(sessionID) {
		return o.demo
	}
	return o.store
}

// StartAssessment creates a session at index 0 over the configuration's
// ordered test sequence. Missing or inactive configurations fail with
// ErrNotFound.
func (o *Orchestrator) StartAssessment(ctx context.Context, userID uint, configurationSlug string) (*models.AssessmentSession, error) {
	return o.start(ctx, userID, configurationSlug, false)
}

// StartDemoAssessment creates an ephemeral session that bypasses
// persistence. No user identity is required.
func (o *Orchestrator) StartDemoAssessment(ctx context.Context, configurationSlug string) (*models.AssessmentSession, error) {
	return o.start(ctx, 0, configurationSlug, true)
}

func (o *Orchestrator) start(ctx context.Context, userID uint, configurationSlug string, demo bool) (*models.AssessmentSession, error) {
	cfg, err := o.catalog.GetConfigurationBySlug(ctx, configurationSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: configuration %q", ErrNotFound, configurationSlug)
	}
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, fmt.Errorf("%w: configuration %q is inactive", ErrNotFound, configurationSlug)
	}
	if len(cfg.Tests) == 0 {
		return nil, fmt.Errorf("%w: configuration %q has no tests", ErrValidation, configurationSlug)
	}

	id := uuid.NewString()
	if demo {
		id = models.DemoSessionPrefix + id
	}
	now := time.Now().UTC()
	session := &models.AssessmentSession{
		ID:               id,
		UserID:           userID,
		ConfigurationID:  cfg.ID,
		Status:           models.StatusStarted,
		CurrentTestIndex: 0,
		TotalTests:       len(cfg.Tests),
		StartedAt:        now,
		LastActivityAt:   now,
	}
	if err := o.storesFor(id).Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	o.metrics.SessionStarted(demo)
	o.log.Info("assessment session started",
		zap.String("session_id", session.ID),
		zap.Uint("user_id", userID),
		zap.String("configuration", configurationSlug),
		zap.Int("total_tests", session.TotalTests),
	)
	return session, nil
}

// SubmitResponse upserts one answer for a question of the session's current
// test. Last write wins for repeated submissions of the same question.
func (o *Orchestrator) SubmitResponse(ctx context.Context, sessionID, questionCode, value string, responseTimeMs *int) error {
	stores := o.storesFor(sessionID)
	session, err := o.getSession(ctx, stores, sessionID)
	if err != nil {
		return err
	}
	if session.Status.Terminal() {
		return fmt.Errorf("%w: session %s is %s", ErrValidation, sessionID, session.Status)
	}
	if value == "" {
		return fmt.Errorf("%w: empty response value", ErrValidation)
	}

	_, testType, err := o.currentTest(ctx, session)
	if err != nil {
		return err
	}
	questions, err := o.catalog.ListActiveQuestions(ctx, testType.ID)
	if err != nil {
		return err
	}

	var question *models.Question
	for i := range questions {
		if questions[i].Code == questionCode {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return fmt.Errorf("%w: question %q is not part of the current test", ErrValidation, questionCode)
	}
	if len(question.Options) > 0 && question.OptionByValue(value) == nil {
		return fmt.Errorf("%w: value %q is not a valid option for question %q", ErrValidation, value, questionCode)
	}

	response := &models.UserResponse{
		SessionID:      sessionID,
		QuestionCode:   questionCode,
		Value:          value,
		ResponseTimeMs: responseTimeMs,
	}
	if err := stores.Responses.Upsert(ctx, response); err != nil {
		return err
	}
	if err := stores.Sessions.Touch(ctx, sessionID); err != nil {
		o.log.Warn("failed to touch session activity", zap.String("session_id", sessionID), zap.Error(err))
	}

	o.metrics.ResponseRecorded()
	return nil
}

// GetTestProgress reports answered/total/remaining for the given test type
// within the session. Pure read.
func (o *Orchestrator) GetTestProgress(ctx context.Context, sessionID, testTypeSlug string) (TestProgress, error) {
	stores := o.storesFor(sessionID)
	if _, err := o.getSession(ctx, stores, sessionID); err != nil {
		return TestProgress{}, err
	}

	testType, err := o.catalog.GetTestTypeBySlug(ctx, testTypeSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return TestProgress{}, fmt.Errorf("%w: test type %q", ErrNotFound, testTypeSlug)
	}
	if err != nil {
		return TestProgress{}, err
	}

	questions, err := o.catalog.ListActiveQuestions(ctx, testType.ID)
	if err != nil {
		return TestProgress{}, err
	}
	responses, err := stores.Responses.ListBySessionAndQuestions(ctx, sessionID, questionCodes(questions))
	if err != nil {
		return TestProgress{}, err
	}
	return ComputeProgress(questions, responses), nil
}

// CompleteCurrentTest scores the test at the session's current index,
// upserts its result and advances the index with a compare-and-set. Calling
// it twice for the same slot advances at most once; the loser gets
// ErrConflict. Partial completion is allowed: unanswered questions simply
// contribute nothing, which the soft warning below surfaces in the logs.
func (o *Orchestrator) CompleteCurrentTest(ctx context.Context, sessionID string) (CompletionOutcome, error) {
	stores := o.storesFor(sessionID)
	session, err := o.getSession(ctx, stores, sessionID)
	if err != nil {
		return CompletionOutcome{}, err
	}
	if session.Status.Terminal() {
		return CompletionOutcome{}, fmt.Errorf("%w: session %s is %s", ErrConflict, sessionID, session.Status)
	}
	if session.CurrentTestIndex >= session.TotalTests {
		return CompletionOutcome{}, fmt.Errorf("%w: no test left to complete", ErrConflict)
	}

	entry, testType, err := o.currentTest(ctx, session)
	if err != nil {
		return CompletionOutcome{}, err
	}
	strategy, ok := o.registry.Get(testType.Algorithm)
	if !ok {
		return CompletionOutcome{}, fmt.Errorf("no scoring strategy registered for algorithm %q", testType.Algorithm)
	}

	questions, err := o.catalog.ListActiveQuestions(ctx, testType.ID)
	if err != nil {
		return CompletionOutcome{}, err
	}
	responses, err := stores.Responses.ListBySessionAndQuestions(ctx, sessionID, questionCodes(questions))
	if err != nil {
		return CompletionOutcome{}, err
	}

	if progress := ComputeProgress(questions, responses); !progress.Complete() {
		o.log.Warn("completing test with unanswered questions",
			zap.String("session_id", sessionID),
			zap.String("test_type", testType.Slug),
			zap.Int("answered", progress.Answered),
			zap.Int("total", progress.Total),
		)
	}

	raw := strategy.CalculateScores(toScoringResponses(responses), questions)
	processed := strategy.ProcessScores(raw, len(responses), testType.MaxScore)
	recommendations := strategy.GenerateRecommendations(processed)

	// The result write precedes the index advance: a persistence failure
	// here leaves the session un-advanced, never advanced without a result.
	result := &models.AssessmentResult{
		SessionID:       sessionID,
		TestTypeID:      testType.ID,
		RawScores:       raw,
		ProcessedScores: processed,
		Recommendations: recommendations,
	}
	if err := stores.Results.Upsert(ctx, result); err != nil {
		return CompletionOutcome{}, err
	}

	nextIndex := session.CurrentTestIndex + 1
	status := models.StatusInProgress
	var completedAt *time.Time
	if nextIndex == session.TotalTests {
		status = models.StatusCompleted
		now := time.Now().UTC()
		completedAt = &now
	}

	advanced, err := stores.Sessions.Advance(ctx, sessionID, session.CurrentTestIndex, nextIndex, status, completedAt)
	if err != nil {
		return CompletionOutcome{}, err
	}
	if !advanced {
		o.metrics.CompletionConflict()
		return CompletionOutcome{}, fmt.Errorf("%w: test slot %d already completed", ErrConflict, session.CurrentTestIndex)
	}

	o.metrics.TestCompleted(testType.Slug)
	o.log.Info("test completed",
		zap.String("session_id", sessionID),
		zap.String("test_type", testType.Slug),
		zap.Int("sequence_order", entry.SequenceOrder),
		zap.Int("next_index", nextIndex),
	)

	outcome := CompletionOutcome{
		HasNextTest:          nextIndex < session.TotalTests,
		NextTestIndex:        nextIndex,
		IsAssessmentComplete: nextIndex == session.TotalTests,
	}
	if outcome.IsAssessmentComplete {
		o.metrics.AssessmentCompleted()
		o.log.Info("assessment completed", zap.String("session_id", sessionID))
	}
	return outcome, nil
}

// GetAssessmentResults returns the session's results ordered by the
// configuration's sequence order, with test type metadata attached.
func (o *Orchestrator) GetAssessmentResults(ctx context.Context, sessionID string) ([]models.AssessmentResult, error) {
	stores := o.storesFor(sessionID)
	session, err := o.getSession(ctx, stores, sessionID)
	if err != nil {
		return nil, err
	}
	cfg, err := o.configuration(ctx, session)
	if err != nil {
		return nil, err
	}

	results, err := stores.Results.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	order := make(map[uint]int, len(cfg.Tests))
	types := make(map[uint]models.TestType, len(cfg.Tests))
	for _, entry := range cfg.Tests {
		order[entry.TestTypeID] = entry.SequenceOrder
		types[entry.TestTypeID] = entry.TestType
	}
	for i := range results {
		if tt, ok := types[results[i].TestTypeID]; ok {
			results[i].TestType = tt
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].TestTypeID] < order[results[j].TestTypeID]
	})
	return results, nil
}

// GetAssessmentSession is a plain read; ErrNotFound when absent.
func (o *Orchestrator) GetAssessmentSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	return o.getSession(ctx, o.storesFor(sessionID), sessionID)
}

// GetUserSessions lists the user's persisted sessions, newest first.
func (o *Orchestrator) GetUserSessions(ctx context.Context, userID uint) ([]models.AssessmentSession, error) {
	return o.store.Sessions.ListByUser(ctx, userID)
}

// AuthorizeSessionOwner loads the session and rejects with ErrForbidden when
// it belongs to a different user. Demo sessions are not owned.
func (o *Orchestrator) AuthorizeSessionOwner(ctx context.Context, sessionID string, userID uint) (*models.AssessmentSession, error) {
	session, err := o.GetAssessmentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsDemo() && session.UserID != userID {
		return nil, fmt.Errorf("%w: session %s does not belong to user %d", ErrForbidden, sessionID, userID)
	}
	return session, nil
}

func (o *Orchestrator) getSession(ctx context.Context, stores repository.Stores, sessionID string) (*models.AssessmentSession, error) {
	session, err := stores.Sessions.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (o *Orchestrator) configuration(ctx context.Context, session *models.AssessmentSession) (*models.Configuration, error) {
	cfg, err := o.catalog.GetConfiguration(ctx, session.ConfigurationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: configuration %d", ErrNotFound, session.ConfigurationID)
	}
	return cfg, err
}

// currentTest resolves the sequence entry and test type at the session's
// current index.
func (o *Orchestrator) currentTest(ctx context.Context, session *models.AssessmentSession) (*models.ConfigurationTest, *models.TestType, error) {
	cfg, err := o.configuration(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	if session.CurrentTestIndex < 0 || session.CurrentTestIndex >= len(cfg.Tests) {
		return nil, nil, fmt.Errorf("%w: session index %d outside test sequence", ErrConflict, session.CurrentTestIndex)
	}
	entry := cfg.Tests[session.CurrentTestIndex]
	return &entry, &entry.TestType, nil
}

func questionCodes(questions []models.Question) []string {
	codes := make([]string, len(questions))
	for i, q := range questions {
		codes[i] = q.Code
	}
	return codes
}

func toScoringResponses(responses []models.UserResponse) []scoring.Response {
	out := make([]scoring.Response, len(responses))
	for i, r := range responses {
		out[i] = scoring.Response{QuestionCode: r.QuestionCode, Value: r.Value}
	}
	return out
}
