package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"psymap-go/internal/assessment"
	"psymap-go/internal/models"
	"psymap-go/internal/repository"
	"psymap-go/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// stubCatalog serves a single-test configuration from memory.
type stubCatalog struct {
	configuration models.Configuration
	testType      models.TestType
	questions     []models.Question
}

func newStubCatalog() *stubCatalog {
	testType := models.TestType{
		ID: 1, Slug: "vark", Name: "Learning Style", Algorithm: "vark",
		MaxScore: 2, Categories: scoring.VARKCategories, IsActive: true,
	}
	var questions []models.Question
	for i := 1; i <= 2; i++ {
		questions = append(questions, models.Question{
			ID: uint(i), TestTypeID: 1, Code: fmt.Sprintf("vk-q%02d", i), OrderIndex: i,
			Options: []models.Option{
				{Value: "a", Category: "visual"},
				{Value: "b", Category: "auditory"},
			},
			IsActive: true,
		})
	}
	return &stubCatalog{
		configuration: models.Configuration{
			ID: 1, Slug: "vark-only", Name: "Learning Style Only", IsActive: true,
			Tests: []models.ConfigurationTest{
				{ConfigurationID: 1, TestTypeID: 1, TestType: testType, SequenceOrder: 1, IsRequired: true},
			},
		},
		testType:  testType,
		questions: questions,
	}
}

func (s *stubCatalog) GetConfiguration(_ context.Context, id uint) (*models.Configuration, error) {
	if id != s.configuration.ID {
		return nil, repository.ErrNotFound
	}
	cfg := s.configuration
	return &cfg, nil
}

func (s *stubCatalog) GetConfigurationBySlug(_ context.Context, slug string) (*models.Configuration, error) {
	if slug != s.configuration.Slug {
		return nil, repository.ErrNotFound
	}
	cfg := s.configuration
	return &cfg, nil
}

func (s *stubCatalog) ListActiveConfigurations(context.Context) ([]models.Configuration, error) {
	return []models.Configuration{s.configuration}, nil
}

func (s *stubCatalog) GetTestType(_ context.Context, id uint) (*models.TestType, error) {
	if id != s.testType.ID {
		return nil, repository.ErrNotFound
	}
	tt := s.testType
	return &tt, nil
}

func (s *stubCatalog) GetTestTypeBySlug(_ context.Context, slug string) (*models.TestType, error) {
	if slug != s.testType.Slug {
		return nil, repository.ErrNotFound
	}
	tt := s.testType
	return &tt, nil
}

func (s *stubCatalog) ListActiveQuestions(_ context.Context, testTypeID uint) ([]models.Question, error) {
	if testTypeID != s.testType.ID {
		return nil, nil
	}
	return s.questions, nil
}

type AssessmentHandlerSuite struct {
	suite.Suite
	engine *gin.Engine
}

func (s *AssessmentHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	orchestrator := assessment.NewOrchestrator(
		log,
		newStubCatalog(),
		repository.NewMemoryStores(),
		repository.NewMemoryStores(),
		scoring.DefaultRegistry(),
		nil,
	)

	handler := NewAssessmentHandler(log, orchestrator)
	resultsHandler := NewResultsHandler(log, orchestrator)

	s.engine = gin.New()
	api := s.engine.Group("/api")
	api.POST("/demo/assessments", handler.StartDemo)
	sessionRoutes := api.Group("/assessments/:id")
	sessionRoutes.GET("", handler.Session)
	sessionRoutes.POST("/responses", handler.SubmitResponse)
	sessionRoutes.GET("/progress", handler.Progress)
	sessionRoutes.POST("/complete", handler.Complete)
	sessionRoutes.GET("/results", resultsHandler.Results)
}

func TestAssessmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AssessmentHandlerSuite))
}

func (s *AssessmentHandlerSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *AssessmentHandlerSuite) startDemo() string {
	w := s.request(http.MethodPost, "/api/demo/assessments", gin.H{"configuration": "vark-only"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var session models.AssessmentSession
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &session))
	s.Require().True(session.IsDemo())
	return session.ID
}

func (s *AssessmentHandlerSuite) TestDemoFlow() {
	id := s.startDemo()

	w := s.request(http.MethodPost, "/api/assessments/"+id+"/responses",
		gin.H{"question": "vk-q01", "value": "a", "responseTimeMs": 850})
	s.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/api/assessments/"+id+"/progress?test_type=vark", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var progress assessment.TestProgress
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &progress))
	s.Equal(1, progress.Answered)
	s.Equal(2, progress.Total)
	s.Equal([]string{"vk-q02"}, progress.RemainingQuestionIDs)

	w = s.request(http.MethodPost, "/api/assessments/"+id+"/responses",
		gin.H{"question": "vk-q02", "value": "b"})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.request(http.MethodPost, "/api/assessments/"+id+"/complete", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var outcome assessment.CompletionOutcome
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &outcome))
	s.False(outcome.HasNextTest)
	s.True(outcome.IsAssessmentComplete)

	w = s.request(http.MethodGet, "/api/assessments/"+id+"/results", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var results []models.AssessmentResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &results))
	s.Require().Len(results, 1)
	s.Equal(50.0, results[0].ProcessedScores["visual"])
	s.Equal(50.0, results[0].ProcessedScores["auditory"])
}

func (s *AssessmentHandlerSuite) TestErrorStatuses() {
	id := s.startDemo()

	s.Run("unknown configuration is 404", func() {
		w := s.request(http.MethodPost, "/api/demo/assessments", gin.H{"configuration": "nope"})
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("missing configuration field is 400", func() {
		w := s.request(http.MethodPost, "/api/demo/assessments", gin.H{})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("invalid option value is 400", func() {
		w := s.request(http.MethodPost, "/api/assessments/"+id+"/responses",
			gin.H{"question": "vk-q01", "value": "z"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown demo session is 404", func() {
		w := s.request(http.MethodGet, "/api/assessments/demo-missing", nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("double complete is 409", func() {
		w := s.request(http.MethodPost, "/api/assessments/"+id+"/complete", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		w = s.request(http.MethodPost, "/api/assessments/"+id+"/complete", nil)
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("non-demo session without login is 401", func() {
		w := s.request(http.MethodGet, "/api/assessments/some-uuid", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}
