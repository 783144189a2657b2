package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/cmd/api/dto"
)

// RootHandler godoc
// @Summary      Liveness text
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "Blog API is running"
// @Router       / [get]
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Blog API is running")
	}
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Liveness probe; does not touch the store
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponseDTO
// @Router       /health [get]
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponseDTO{Status: "ok", Timestamp: time.Now().UTC()})
	}
}

// ReadyHandler godoc
// @Summary      Readiness check
// @Description  Pings the document store
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponseDTO
// @Failure      503  {object}  dto.HealthResponseDTO
// @Router       /ready [get]
func ReadyHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponseDTO{
				Status:    "degraded",
				Store:     "down",
				Error:     err.Error(),
				Timestamp: time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponseDTO{Status: "ok", Store: "up", Timestamp: time.Now().UTC()})
	}
}

// NotFoundHandler answers unmatched routes.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "route not found"})
	}
}
