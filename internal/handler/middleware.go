package handler

import (
	"strings"

	"birthday-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const currentUserKey = "currentUser"

// AuthMiddleware resolves the bearer token into the current user and aborts
// with 401 on any failure. It is the sole authorization gate.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrUnauthorized)
			return
		}

		user, err := h.authService.ResolveUser(c.Request.Context(), parts[1])
		if err != nil {
			zap.L().Warn("Bearer token resolution failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, err)
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user placed in the context by AuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
