package handlers

import (
	"net/http"

	"psymap-go/internal/assessment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssessmentHandler struct {
	log          *zap.Logger
	orchestrator *assessment.Orchestrator
}

func NewAssessmentHandler(log *zap.Logger, orchestrator *assessment.Orchestrator) *AssessmentHandler {
	return &AssessmentHandler{log: log, orchestrator: orchestrator}
}

type startRequest struct {
	Configuration string `json:"configuration" binding:"required"`
}

func (h *AssessmentHandler) Start(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "configuration is required"})
		return
	}

	session, err := h.orchestrator.StartAssessment(c.Request.Context(), user.ID, req.Configuration)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// StartDemo creates an ephemeral session that never touches the database.
func (h *AssessmentHandler) StartDemo(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "configuration is required"})
		return
	}

	session, err := h.orchestrator.StartDemoAssessment(c.Request.Context(), req.Configuration)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type submitResponseRequest struct {
	Question       string      `json:"question" binding:"required"`
	Value          interface{} `json:"value" binding:"required"`
	ResponseTimeMs *int        `json:"responseTimeMs"`
}

func (h *AssessmentHandler) SubmitResponse(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}

	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and value are required"})
		return
	}
	value, ok := valueToString(req.Value)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be a string, number or boolean"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.AuthorizeSessionOwner(ctx, sessionID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.orchestrator.SubmitResponse(ctx, sessionID, req.Question, value, req.ResponseTimeMs); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssessmentHandler) Progress(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}
	testTypeSlug := c.Query("test_type")
	if testTypeSlug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test_type query parameter is required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.AuthorizeSessionOwner(ctx, sessionID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	progress, err := h.orchestrator.GetTestProgress(ctx, sessionID, testTypeSlug)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *AssessmentHandler) Complete(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orchestrator.AuthorizeSessionOwner(ctx, sessionID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	outcome, err := h.orchestrator.CompleteCurrentTest(ctx, sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *AssessmentHandler) Session(c *gin.Context) {
	sessionID, userID, ok := sessionRequest(c)
	if !ok {
		return
	}

	session, err := h.orchestrator.AuthorizeSessionOwner(c.Request.Context(), sessionID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AssessmentHandler) UserSessions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	sessions, err := h.orchestrator.GetUserSessions(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
