package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/auth"
)

// SessionRequired gates a route group on a valid session cookie. API
// clients get a 401; there are no server-rendered pages to redirect.
func SessionRequired(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(auth.SessionCookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if err := sessions.Verify(cookie); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
