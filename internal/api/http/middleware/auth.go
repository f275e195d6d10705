package middleware

import (
	"errors"
	"net/http"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "authenticated_agent"

// CurrentAgent returns the identity resolved by Authenticate for this
// request. The second return is false on routes outside the gate.
func CurrentAgent(c *gin.Context) (agents.Agent, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return agents.Agent{}, false
	}
	agent, ok := v.(agents.Agent)
	return agent, ok
}

// Authenticate is the single interception point between a bearer token
// and a resolved agent identity. Every failure aborts before any
// handler runs; revoked tokens get a distinct message so clients know
// to log in again rather than retry.
func Authenticate(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, err := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingCredential):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			case errors.Is(err, auth.ErrMalformedCredential):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			case errors.Is(err, auth.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked, please log in again"})
			case errors.Is(err, auth.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.Set(identityKey, agent)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate; it reads the typed identity
// rather than a loose context key, so a misordered chain fails closed
// with 401 instead of granting access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, ok := CurrentAgent(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		if agent.Role != agents.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
