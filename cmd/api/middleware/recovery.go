package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/cmd/api/dto"
	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/logger"
)

// Recovery converts a handler panic into a 500 JSON envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorWithFields("panic recovered", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"panic":      fmt.Sprint(recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
	})
}
