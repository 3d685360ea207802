package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"psymap-go/internal/assessment"
	"psymap-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// currentUser pulls the user loaded by the router middleware out of the
// context.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// sessionRequest resolves the session ID of the request plus the acting user
// ID. Demo sessions carry no owner and need no authenticated user.
func sessionRequest(c *gin.Context) (sessionID string, userID uint, ok bool) {
	sessionID = c.Param("id")
	if models.IsDemoSessionID(sessionID) {
		return sessionID, 0, true
	}
	user, exists := currentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", 0, false
	}
	return sessionID, user.ID, true
}

// respondError maps the orchestrator's error taxonomy onto HTTP statuses.
// Unclassified errors are logged and surfaced as a plain 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, assessment.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, assessment.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this session"})
	case errors.Is(err, assessment.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assessment.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// valueToString flattens a JSON response value (string, number or boolean)
// into the stored string form.
func valueToString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}
