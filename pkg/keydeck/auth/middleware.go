package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenHeader is the request header carrying the bearer token.
// The client sends the raw token in a custom header rather than an
// Authorization: Bearer scheme.
const TokenHeader = "x-auth-token"

// ContextKeyUserID is the key for the authenticated user ID in gin context
const ContextKeyUserID = "user_id"

// Middleware validates the x-auth-token header and sets the authenticated
// user ID in the request context. It never mutates state or logs credentials.
func Middleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			c.Abort()
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from the gin context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	return userID.(string), true
}
