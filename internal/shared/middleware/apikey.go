package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf-api/internal/jsonapi"
)

// APIKey gates requests on the My-ApiKey header, matching the
// securityDefinitions entry in the generated swagger. Disabled when no
// key is configured.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		supplied := c.GetHeader("My-ApiKey")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, jsonapi.ErrorDocument(
				http.StatusUnauthorized, "AUTH_001", "Invalid or missing API key"))
			c.Abort()
			return
		}

		c.Next()
	}
}
