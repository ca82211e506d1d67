package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userId"

	// AnonymousUser owns analyses submitted without an X-User-Id header.
	AnonymousUser = "anonymous"

	maxUserIDLen = 128
)

// UserScope reads the caller supplied X-User-Id header and stores it for handlers.
// Missing or malformed values fall back to AnonymousUser.
func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDKey, normalizeUserID(c.GetHeader("X-User-Id")))
		c.Next()
	}
}

// UserIDFromContext returns the user stored by UserScope.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func normalizeUserID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxUserIDLen {
		return AnonymousUser
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return AnonymousUser
		}
	}
	return id
}
