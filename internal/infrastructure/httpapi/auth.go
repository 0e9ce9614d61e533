package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerAuth rejects requests without the exact service token. An empty token disables the check.
func bearerAuth(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	expected := []byte("Bearer " + token)

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or missing bearer token"})
			return
		}
		c.Next()
	}
}
