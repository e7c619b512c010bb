package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// AuthMiddleware rejects requests without a valid admin bearer token.
func AuthMiddleware(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := gate.Authorize(BearerToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		// Attach the session to the context
		c.Set(adminKey, admin)

		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// FromContext returns the session attached by AuthMiddleware.
func FromContext(c *gin.Context) (Admin, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return Admin{}, false
	}
	admin, ok := v.(Admin)
	return admin, ok
}
