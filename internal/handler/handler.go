// Package handler wires the HTTP endpoints to the domain services.
package handler

import (
	"birthday-server/internal/config"
	"birthday-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the HTTP endpoints.
type Handler struct {
	authService    service.AuthService
	profileService service.ProfileService
	subService     service.SubscriptionService
	cfg            *config.Config
}

// New creates a Handler.
func New(authService service.AuthService, profileService service.ProfileService, subService service.SubscriptionService, cfg *config.Config) *Handler {
	return &Handler{
		authService:    authService,
		profileService: profileService,
		subService:     subService,
		cfg:            cfg,
	}
}

// RegisterRoutes attaches all endpoints to the router. Extra middlewares,
// such as the rate limiter, apply to the public credential endpoints only.
func (h *Handler) RegisterRoutes(router *gin.Engine, extra ...gin.HandlerFunc) {
	api := router.Group("/api")

	public := api.Group("")
	for _, mw := range extra {
		if mw != nil {
			public.Use(mw)
		}
	}
	{
		public.POST("/signup/", h.signup)
		public.POST("/signin/", h.signin)
	}

	protected := api.Group("")
	protected.Use(h.AuthMiddleware())
	{
		protected.GET("/profile/", h.profile)
		protected.PATCH("/update_profile/", h.updateProfile)
		protected.PUT("/change_password/", h.changePassword)

		protected.GET("/subscriptions/", h.subscriptions)
		protected.GET("/notifications/", h.notifications)
		protected.POST("/subscribe/", h.subscribe)
		protected.DELETE("/unsubscribe/", h.unsubscribe)
	}
}
