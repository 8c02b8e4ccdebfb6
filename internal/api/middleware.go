package api

import (
	"aduan/frontend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an id, reusing the caller's when it is a
// valid UUID. Diagnostic events carry it so a user report can be matched to
// the failure.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(config.RequestIDHeader)
		if uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.Set(config.RequestIDKey, id)
		c.Header(config.RequestIDHeader, id)
		c.Next()
	}
}
