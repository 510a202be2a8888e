package handler

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"birthday-server/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) profile(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	user := currentUser(c)

	name := user.Name
	if req.Name != nil {
		normalized, ok := normalizeName(*req.Name)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Name length must be between %d and %d characters", minNameLength, maxNameLength)})
			return
		}
		name = normalized
	}
	surname := user.Surname
	if req.Surname != nil {
		normalized, ok := normalizeName(*req.Surname)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Surname length must be between %d and %d characters", minNameLength, maxNameLength)})
			return
		}
		surname = normalized
	}
	birthday := user.Birthday
	if req.Birthday != nil {
		parsed, err := parseDate(*req.Birthday)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Birthday must be a date in YYYY-MM-DD format"})
			return
		}
		birthday = parsed
	}

	updated, err := h.profileService.UpdateProfile(c.Request.Context(), user, name, surname, birthday)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(updated))
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	if passwordLength := utf8.RuneCountInString(req.NewPassword); passwordLength < minPasswordLength || passwordLength > maxPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Password length must be between %d and %d characters", minPasswordLength, maxPasswordLength)})
		return
	}

	updated, err := h.profileService.ChangePassword(c.Request.Context(), currentUser(c), req.Password, req.NewPassword)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(updated))
}
