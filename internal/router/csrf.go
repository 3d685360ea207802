package router

import (
	"crypto/subtle"
	"net/http"

	"psymap-go/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const csrfSessionKey = "csrfToken"

// CSRFProtection validates the X-CSRF-Token header on state-changing requests
// against the token stored in the cookie session. Safe methods pass through
// and lazily mint a token so clients can fetch it from GET /api/csrf.
func CSRFProtection(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if _, ok := session.Get(csrfSessionKey).(string); !ok {
				token, err := utils.GenerateSecureToken(32)
				if err != nil {
					log.Error("Failed to generate CSRF token", zap.Error(err))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
					return
				}
				session.Set(csrfSessionKey, token)
				if err := session.Save(); err != nil {
					log.Error("Failed to save CSRF token", zap.Error(err))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
					return
				}
			}
			c.Next()
			return
		}

		expected, ok := session.Get(csrfSessionKey).(string)
		provided := c.GetHeader("X-CSRF-Token")
		if !ok || provided == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			log.Warn("CSRF token mismatch",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid CSRF token"})
			return
		}
		c.Next()
	}
}

// CSRFToken returns the session's CSRF token, minting one if needed.
func CSRFToken(c *gin.Context) {
	session := sessions.Default(c)
	token, ok := session.Get(csrfSessionKey).(string)
	if !ok {
		var err error
		token, err = utils.GenerateSecureToken(32)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		session.Set(csrfSessionKey, token)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}
