package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fundflow/internal/domain"
)

// CookieName is the cookie the session token is stored under.
const CookieName = "fundflow_session"

const contextKeySession = "session"

// SessionFromContext returns the session set by RequireSession, or nil.
func SessionFromContext(c *gin.Context) *domain.Session {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil
	}
	session, ok := v.(*domain.Session)
	if !ok {
		return nil
	}
	return session
}

// RequireSession restores the session from the cookie or an Authorization
// bearer token and sets it in the request context. Missing or invalid
// tokens get a 401.
func RequireSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := sessions.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(contextKeySession, session)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
