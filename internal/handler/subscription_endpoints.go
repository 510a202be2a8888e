package handler

import (
	"net/http"

	"birthday-server/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) subscriptions(c *gin.Context) {
	users, err := h.subService.ListSubscriptions(c.Request.Context(), currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

func (h *Handler) notifications(c *gin.Context) {
	n, err := h.subService.Notifications(c.Request.Context(), currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notificationsResponse{
		TodayBirthdays:    toUserResponses(n.Today),
		TomorrowBirthdays: toUserResponses(n.Tomorrow),
	})
}

func (h *Handler) subscribe(c *gin.Context) {
	var req findUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	target, err := h.subService.Subscribe(c.Request.Context(), currentUser(c), req.Username)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	subscriptionsTotal.WithLabelValues("subscribe").Inc()

	c.JSON(http.StatusOK, toUserResponse(target))
}

func (h *Handler) unsubscribe(c *gin.Context) {
	var req findUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	target, err := h.subService.Unsubscribe(c.Request.Context(), currentUser(c), req.Username)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	subscriptionsTotal.WithLabelValues("unsubscribe").Inc()

	c.JSON(http.StatusOK, toUserResponse(target))
}
