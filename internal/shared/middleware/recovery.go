package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookshelf-api/internal/jsonapi"
)

// Recovery turns panics into a generic JSON:API server error so one bad
// request cannot take the process down.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("error", err).
					Msg("Panic recovered")

				c.JSON(http.StatusInternalServerError, jsonapi.ErrorDocument(
					http.StatusInternalServerError, "SYS_001", "Internal server error"))
				c.Abort()
			}
		}()

		c.Next()
	}
}
