package handler

import (
	"time"

	"birthday-server/internal/models"
)

const dateLayout = "2006-01-02"

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Birthday string `json:"birthday" binding:"required"`
}

type signinRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// updateProfileRequest carries a partial update. Absent fields keep
// their current values.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Birthday *string `json:"birthday"`
}

type changePasswordRequest struct {
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type findUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// userResponse is the public projection of a user: no id, no hash.
type userResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Birthday string `json:"birthday"`
}

type notificationsResponse struct {
	TodayBirthdays    []userResponse `json:"today_birthdays"`
	TomorrowBirthdays []userResponse `json:"tomorrow_birthdays"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		Username: u.Username,
		Name:     u.Name,
		Surname:  u.Surname,
		Birthday: u.Birthday.Format(dateLayout),
	}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
