package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	apiKey     string
	apiKeyOnce sync.Once
)

// getAPIKey returns the configured API key, loading it once from environment.
// Returns empty string if API_KEY is not set (auth disabled).
func getAPIKey() string {
	apiKeyOnce.Do(func() {
		apiKey = os.Getenv("API_KEY")
	})
	return apiKey
}

// APIKeyAuth returns middleware that requires a valid API key for write
// access. If the API_KEY environment variable is not set, all requests are
// allowed (open mode). The key is provided in the X-API-Key header.
func APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := getAPIKey()

		// No key configured means open mode (local dev)
		if key == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "X-API-Key header required",
				"code":  "AUTH_REQUIRED",
			})
			return
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
				"code":  "AUTH_INVALID_KEY",
			})
			return
		}

		c.Next()
	}
}
