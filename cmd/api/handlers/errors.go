package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/cmd/api/dto"
	"blog-api/cmd/api/services"
	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/logger"
	"blog-api/models"
)

// respondError maps service errors onto the JSON error envelope.
// Store failures are logged and reported without internal detail.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: verr.Error()})
	case errors.Is(err, services.ErrInvalidID):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: services.ErrInvalidID.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: services.ErrNotFound.Error()})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
	}
}
