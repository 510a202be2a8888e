package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"birthday-server/internal/models"
	"birthday-server/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 100
	minNameLength     = 2
	maxNameLength     = 30
)

// Lowercase alphanumerics, underscore and dot, 4 to 20 characters.
var usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{4,20}$`)

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	if !usernameRegex.MatchString(req.Username) {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Username must be 4-20 lowercase letters, digits, underscores or dots"})
		return
	}
	if passwordLength := utf8.RuneCountInString(req.Password); passwordLength < minPasswordLength || passwordLength > maxPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Password length must be between %d and %d characters", minPasswordLength, maxPasswordLength)})
		return
	}

	name, ok := normalizeName(req.Name)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Name length must be between %d and %d characters", minNameLength, maxNameLength)})
		return
	}
	surname, ok := normalizeName(req.Surname)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: fmt.Sprintf("Surname length must be between %d and %d characters", minNameLength, maxNameLength)})
		return
	}

	birthday, err := parseDate(req.Birthday)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Birthday must be a date in YYYY-MM-DD format"})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Name:     name,
		Surname:  surname,
		Birthday: birthday,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	signupsTotal.Inc()

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	token, err := h.authService.Signin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	signinsTotal.Inc()

	c.JSON(http.StatusOK, token)
}

// normalizeName trims surrounding whitespace and enforces the length bounds.
// Lengths are counted in characters, not bytes, so multibyte names get the
// same 2-30 range as ASCII ones.
func normalizeName(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if length := utf8.RuneCountInString(trimmed); length < minNameLength || length > maxNameLength {
		return "", false
	}
	return trimmed, true
}
