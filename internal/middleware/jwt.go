package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"makerspace/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // User identifiers
)

// SessionCookie carries the session token for browser clients
const SessionCookie = "session"

// userIDKey is the gin context key holding the authenticated user's ID
const userIDKey = "userID"

// SessionAuthMiddleware validates the session token from the Authorization
// header or the session cookie and stores the user ID in the context
func SessionAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c) // Header first, cookie second
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		c.Set(userIDKey, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}

// sessionToken extracts the raw token, or "" when none was sent
func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUserID returns the authenticated user's ID set by SessionAuthMiddleware
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// SetCurrentUserID stores id the same way SessionAuthMiddleware does
func SetCurrentUserID(c *gin.Context, id uuid.UUID) {
	c.Set(userIDKey, id)
}
